// Редакторские сессии: серверное состояние открытого документа-шаблона.
// Сессия владеет текущим деревом документа, HTML-снимком, выделением и
// индексом плейсхолдеров; изменения контента проходят через планировщик.
//
// Основные возможности:
//   - Приём уведомлений об изменении контента и отложенное автосохранение.
//   - Немедленное сканирование при открытии сессии и после импорта.
//   - Рассылка обновлённого индекса подписчикам (вебсокет).
package session

import (
	"sync"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/apierrors"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/placeholder"
	"github.com/gofrs/uuid"
)

type Session struct {
	ID      uuid.UUID
	DraftID uuid.NullUUID

	mu           sync.RWMutex
	doc          *tiptap.TipTapDocument
	markup       string
	selection    Selection
	index        placeholder.Index
	createdAt    time.Time
	lastActivity time.Time
	lastSaveErr  string
	closed       bool

	scheduler *Scheduler

	listeners  map[int]chan placeholder.Index
	nextListen int
}

func New(id uuid.UUID, draftID uuid.NullUUID, quiet time.Duration, persist PersistFunc) *Session {
	s := &Session{
		ID:           id,
		DraftID:      draftID,
		createdAt:    time.Now(),
		lastActivity: time.Now(),
		listeners:    make(map[int]chan placeholder.Index),
	}
	s.scheduler = NewScheduler(quiet,
		persist,
		func(snap Snapshot) { s.applyScan(snap.Doc) },
		func(err error) { s.setSaveError(err) },
	)
	return s
}

// Init задаёт начальный контент без планирования сохранения и сразу
// сканирует документ. Используется при открытии сессии и после импорта.
func (s *Session) Init(doc *tiptap.TipTapDocument, markup string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.doc = doc
	s.markup = markup
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.applyScan(doc)
}

// SetContent - уведомление об изменении контента. Снимок уходит в планировщик,
// сохранение и пересканирование случатся после паузы в редактировании.
func (s *Session) SetContent(doc *tiptap.TipTapDocument, markup string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return apierrors.ErrSessionClosed
	}
	s.doc = doc
	s.markup = markup
	s.lastActivity = time.Now()
	s.lastSaveErr = ""
	s.mu.Unlock()

	s.scheduler.Notify(Snapshot{Doc: doc, Markup: markup, At: time.Now()})
	return nil
}

// Rescan запускает немедленное сканирование текущего документа без сохранения.
// Вызывается при создании сессии и по завершении импорта.
func (s *Session) Rescan() placeholder.Index {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	s.applyScan(doc)
	return s.Placeholders()
}

// Flush - ручное сохранение в обход таймера.
func (s *Session) Flush() error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return apierrors.ErrSessionClosed
	}
	return s.scheduler.Flush()
}

func (s *Session) Placeholders() placeholder.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(placeholder.Index, len(s.index))
	copy(out, s.index)
	return out
}

func (s *Session) Document() *tiptap.TipTapDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Session) Markup() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markup
}

func (s *Session) SaveError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}

func (s *Session) SchedulerState() SchedulerState {
	return s.scheduler.State()
}

func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Subscribe подписывает на обновления индекса. Возвращённый канал получает
// новый индекс при каждом реальном изменении; cancel снимает подписку.
func (s *Session) Subscribe() (<-chan placeholder.Index, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListen
	s.nextListen++
	ch := make(chan placeholder.Index, 4)
	s.listeners[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(c)
		}
	}
	return ch, cancel
}

// Close закрывает сессию: таймер снимается, подписчики отключаются,
// индекс уничтожается вместе с сессией.
func (s *Session) Close() {
	s.scheduler.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.index = nil
	for id, ch := range s.listeners {
		delete(s.listeners, id)
		close(ch)
	}
}

func (s *Session) applyScan(doc *tiptap.TipTapDocument) {
	next := placeholder.Scan(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !placeholder.Changed(s.index, next) {
		return
	}
	s.index = next

	snapshot := make(placeholder.Index, len(next))
	copy(snapshot, next)
	// Отправка неблокирующая: отставший подписчик теряет промежуточный индекс
	for _, ch := range s.listeners {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (s *Session) setSaveError(err error) {
	s.mu.Lock()
	s.lastSaveErr = err.Error()
	s.mu.Unlock()
}
