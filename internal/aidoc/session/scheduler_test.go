package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const testQuiet = 50 * time.Millisecond

// TestSchedulerDebounce проверяет, что серия уведомлений приводит ровно
// к одному циклу сохранения после паузы
func TestSchedulerDebounce(t *testing.T) {
	var persists, scans atomic.Int32
	s := NewScheduler(testQuiet,
		func(snap Snapshot) error { persists.Add(1); return nil },
		func(snap Snapshot) { scans.Add(1) },
		nil,
	)
	defer s.Stop()

	// Три быстрых изменения: каждый Notify перезапускает таймер
	for i := 0; i < 3; i++ {
		s.Notify(Snapshot{Markup: "v", At: time.Now()})
		time.Sleep(testQuiet / 4)
	}

	if got := persists.Load(); got != 0 {
		t.Fatalf("persist fired before quiet period: %d", got)
	}
	if state := s.State(); state != StatePending {
		t.Fatalf("state = %v, want pending", state)
	}

	time.Sleep(testQuiet * 2)

	if got := persists.Load(); got != 1 {
		t.Errorf("persists = %d, want 1", got)
	}
	if got := scans.Load(); got != 1 {
		t.Errorf("scans = %d, want 1", got)
	}
	if state := s.State(); state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

// TestSchedulerUsesLatestSnapshot проверяет, что сохраняется снимок
// последнего уведомления
func TestSchedulerUsesLatestSnapshot(t *testing.T) {
	var mu sync.Mutex
	var saved string
	s := NewScheduler(testQuiet,
		func(snap Snapshot) error {
			mu.Lock()
			saved = snap.Markup
			mu.Unlock()
			return nil
		},
		nil, nil,
	)
	defer s.Stop()

	s.Notify(Snapshot{Markup: "first"})
	s.Notify(Snapshot{Markup: "second"})
	time.Sleep(testQuiet * 2)

	mu.Lock()
	defer mu.Unlock()
	if saved != "second" {
		t.Errorf("saved snapshot = %q, want second", saved)
	}
}

// TestSchedulerFlush проверяет ручной обход: немедленный цикл и отключение
// до следующего уведомления
func TestSchedulerFlush(t *testing.T) {
	var persists, scans atomic.Int32
	s := NewScheduler(time.Hour,
		func(snap Snapshot) error { persists.Add(1); return nil },
		func(snap Snapshot) { scans.Add(1) },
		nil,
	)
	defer s.Stop()

	s.Notify(Snapshot{Markup: "v1"})
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persists.Load() != 1 || scans.Load() != 1 {
		t.Fatalf("after flush: persists=%d scans=%d, want 1/1", persists.Load(), scans.Load())
	}
	if state := s.State(); state != StateIdle {
		t.Fatalf("timer still armed after flush: %v", state)
	}

	// Повторный Flush без новых изменений ничего не делает
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persists.Load() != 1 {
		t.Errorf("repeated flush persisted again: %d", persists.Load())
	}

	// Новое изменение снова включает планировщик
	s.Notify(Snapshot{Markup: "v2"})
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persists.Load() != 2 {
		t.Errorf("persists = %d, want 2", persists.Load())
	}
}

// TestSchedulerPersistFailureSkipsScan проверяет, что при ошибке сохранения
// сканирование пропускается, а планировщик возвращается в Idle
func TestSchedulerPersistFailureSkipsScan(t *testing.T) {
	var scans atomic.Int32
	persistErr := errors.New("storage unavailable")
	var reported atomic.Int32
	s := NewScheduler(testQuiet,
		func(snap Snapshot) error { return persistErr },
		func(snap Snapshot) { scans.Add(1) },
		func(err error) { reported.Add(1) },
	)
	defer s.Stop()

	s.Notify(Snapshot{Markup: "v"})
	time.Sleep(testQuiet * 2)

	if scans.Load() != 0 {
		t.Errorf("scan ran after persist failure")
	}
	if reported.Load() != 1 {
		t.Errorf("failure reported %d times, want 1", reported.Load())
	}
	if state := s.State(); state != StateIdle {
		t.Errorf("state = %v, want idle", state)
	}

	// Ручной путь возвращает ошибку наружу
	s.Notify(Snapshot{Markup: "v"})
	if err := s.Flush(); !errors.Is(err, persistErr) {
		t.Errorf("Flush() = %v, want %v", err, persistErr)
	}
}

// TestSchedulerFlushDuringCycleKeepsPendingSave проверяет, что Flush во время
// выполняющегося цикла не снимает таймер, взведённый более свежим изменением:
// новый снимок всё равно сохраняется после завершения полёта
func TestSchedulerFlushDuringCycleKeepsPendingSave(t *testing.T) {
	block := make(chan struct{})
	var calls atomic.Int32
	var mu sync.Mutex
	var saved []string

	s := NewScheduler(testQuiet,
		func(snap Snapshot) error {
			if calls.Add(1) == 1 {
				<-block
			}
			mu.Lock()
			saved = append(saved, snap.Markup)
			mu.Unlock()
			return nil
		},
		nil, nil,
	)
	defer s.Stop()

	s.Notify(Snapshot{Markup: "v1"})
	time.Sleep(testQuiet + testQuiet/2) // цикл стартовал и завис в сохранении

	if state := s.State(); state != StateExecuting {
		t.Fatalf("state = %v, want executing", state)
	}

	// Изменение во время полёта взводит таймер на следующий период
	s.Notify(Snapshot{Markup: "v2"})
	if err := s.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	close(block)
	time.Sleep(testQuiet * 4)

	mu.Lock()
	defer mu.Unlock()
	if len(saved) != 2 {
		t.Fatalf("persisted %d snapshots (%v), want 2", len(saved), saved)
	}
	if saved[1] != "v2" {
		t.Errorf("last persisted snapshot = %q, want v2", saved[1])
	}
}

// TestSchedulerSingleInFlight проверяет, что одновременные срабатывания
// не запускают два цикла сохранения параллельно
func TestSchedulerSingleInFlight(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	s := NewScheduler(testQuiet,
		func(snap Snapshot) error {
			n := inFlight.Add(1)
			if n > maxInFlight.Load() {
				maxInFlight.Store(n)
			}
			time.Sleep(testQuiet)
			inFlight.Add(-1)
			return nil
		},
		nil, nil,
	)
	defer s.Stop()

	s.Notify(Snapshot{Markup: "v"})
	go s.Flush()
	go s.Flush()
	time.Sleep(testQuiet * 4)

	if maxInFlight.Load() > 1 {
		t.Errorf("max in-flight cycles = %d, want 1", maxInFlight.Load())
	}
}
