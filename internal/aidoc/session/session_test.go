package session

import (
	"errors"
	"testing"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/gofrs/uuid"
)

func testDoc(text string) *tiptap.TipTapDocument {
	return &tiptap.TipTapDocument{
		Type: "doc",
		Content: []tiptap.TipTapNode{
			{
				Type:    "paragraph",
				Content: []tiptap.TipTapNode{{Type: "text", Text: text}},
			},
		},
	}
}

func newTestSession(t *testing.T, persist PersistFunc) *Session {
	t.Helper()
	id, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := New(id, uuid.NullUUID{}, testQuiet, persist)
	t.Cleanup(s.Close)
	return s
}

// TestSessionContentFlow проверяет полный цикл: изменение контента, пауза,
// сохранение и обновление индекса
func TestSessionContentFlow(t *testing.T) {
	saved := make(chan string, 1)
	s := newTestSession(t, func(snap Snapshot) error {
		saved <- snap.Markup
		return nil
	})

	if err := s.SetContent(testDoc("Hello {{name}}"), "<p>Hello {{name}}</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.Placeholders(); len(got) != 0 {
		t.Fatalf("index updated before quiet period: %+v", got)
	}

	select {
	case markup := <-saved:
		if markup != "<p>Hello {{name}}</p>" {
			t.Errorf("saved markup = %q", markup)
		}
	case <-time.After(testQuiet * 4):
		t.Fatal("persist not called")
	}

	time.Sleep(testQuiet)
	index := s.Placeholders()
	if len(index) != 1 || index[0].Text != "{{name}}" {
		t.Fatalf("index = %+v, want single {{name}}", index)
	}
	if index[0].From != 7 || index[0].To != 15 {
		t.Errorf("record range = [%d, %d), want [7, 15)", index[0].From, index[0].To)
	}
}

// TestSessionRescanImmediate проверяет немедленное сканирование при открытии
func TestSessionRescanImmediate(t *testing.T) {
	s := newTestSession(t, nil)

	if err := s.SetContent(testDoc("pay [amount] now"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	index := s.Rescan()

	if len(index) != 1 || index[0].Text != "[amount]" {
		t.Fatalf("index = %+v, want single [amount]", index)
	}
}

func TestSessionNavigate(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.SetContent(testDoc("a {{one}} b [two]"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Rescan()

	sel, err := s.Navigate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	index := s.Placeholders()
	if sel.From != index[1].From || sel.To != index[1].To {
		t.Errorf("selection = %+v, want record range %+v", sel, index[1])
	}

	// Номер за границами прижимается к краю, ошибки нет
	sel, err = s.Navigate(99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.From != index[1].From {
		t.Errorf("clamped selection = %+v, want last record", sel)
	}
	if _, err := s.Navigate(-5); err != nil {
		t.Errorf("negative index returned error: %v", err)
	}
}

func TestSessionNavigateStaleRecord(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.SetContent(testDoc("tail {{marker}}"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Rescan()

	// Документ сжался после сканирования: диапазон записи прижимается
	// к новому размеру, паники нет
	s.mu.Lock()
	s.doc = testDoc("x")
	s.mu.Unlock()

	sel, err := s.Navigate(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	size := s.Document().ContentSize()
	if sel.From > size || sel.To > size {
		t.Errorf("selection %+v exceeds document size %d", sel, size)
	}
}

func TestSessionNavigateEmptyIndex(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.SetContent(testDoc("no markers"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Rescan()

	if _, err := s.Navigate(0); !errors.Is(err, apierrors.ErrPlaceholderNotFound) {
		t.Errorf("Navigate on empty index = %v, want ErrPlaceholderNotFound", err)
	}
}

// TestSessionSubscribe проверяет рассылку индекса подписчикам при изменении
func TestSessionSubscribe(t *testing.T) {
	s := newTestSession(t, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	if err := s.SetContent(testDoc("new {{field}}"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Rescan()

	select {
	case index := <-ch:
		if len(index) != 1 || index[0].Label != "field" {
			t.Errorf("pushed index = %+v", index)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber not notified")
	}

	// Повторное сканирование без изменений ничего не шлёт
	s.Rescan()
	select {
	case index := <-ch:
		t.Errorf("unexpected push for unchanged index: %+v", index)
	case <-time.After(testQuiet):
	}
}

func TestSessionClosed(t *testing.T) {
	s := newTestSession(t, nil)
	s.Close()

	if err := s.SetContent(testDoc("x"), ""); !errors.Is(err, apierrors.ErrSessionClosed) {
		t.Errorf("SetContent on closed session = %v, want ErrSessionClosed", err)
	}
	if err := s.Flush(); !errors.Is(err, apierrors.ErrSessionClosed) {
		t.Errorf("Flush on closed session = %v, want ErrSessionClosed", err)
	}
	if got := s.Placeholders(); len(got) != 0 {
		t.Errorf("closed session kept index: %+v", got)
	}
}

func TestStore(t *testing.T) {
	st := NewStore(time.Hour)
	defer st.Close()

	s := newTestSession(t, nil)
	st.Add(s)

	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Fatal("Get returned different session")
	}

	unknown := uuid.Must(uuid.NewV4())
	if _, err := st.Get(unknown); !errors.Is(err, apierrors.ErrSessionNotFound) {
		t.Errorf("Get unknown = %v, want ErrSessionNotFound", err)
	}

	st.Delete(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, apierrors.ErrSessionNotFound) {
		t.Errorf("Get after delete = %v, want ErrSessionNotFound", err)
	}
	if !s.Closed() {
		t.Error("deleted session not closed")
	}
}
