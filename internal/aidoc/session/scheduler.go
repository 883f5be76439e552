// Планировщик отложенного сохранения документа.
// Собирает уведомления об изменениях контента и откладывает цикл
// "сохранить, затем пересканировать" до паузы в редактировании.
//
// Основные возможности:
//   - Классический trailing-edge debounce: каждое изменение перезапускает таймер.
//   - Ручной сброс (Flush) с немедленным выполнением цикла и отключением
//     таймера до следующего изменения.
//   - Не более одного цикла сохранения в полёте.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/editor/tiptap"
)

// Состояние планировщика. Executing имеет приоритет над Pending при наблюдении.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StatePending
	StateExecuting
)

func (s SchedulerState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateExecuting:
		return "executing"
	default:
		return "idle"
	}
}

// Snapshot - снимок контента на момент последнего изменения.
type Snapshot struct {
	Doc    *tiptap.TipTapDocument
	Markup string
	At     time.Time
}

// PersistFunc сохраняет снимок во внешнее хранилище. Вызывается вне блокировки
// планировщика, ошибка не повторяется автоматически.
type PersistFunc func(snap Snapshot) error

type Scheduler struct {
	mu       sync.Mutex
	quiet    time.Duration
	timer    *time.Timer
	running  bool
	dirty    bool
	snapshot Snapshot

	persist PersistFunc
	onScan  func(snap Snapshot)
	onError func(err error)
}

func NewScheduler(quiet time.Duration, persist PersistFunc, onScan func(Snapshot), onError func(error)) *Scheduler {
	if onError == nil {
		onError = func(err error) {
			slog.Error("Persist snapshot", "err", err)
		}
	}
	return &Scheduler{
		quiet:   quiet,
		persist: persist,
		onScan:  onScan,
		onError: onError,
	}
}

func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return StateExecuting
	}
	if s.timer != nil {
		return StatePending
	}
	return StateIdle
}

// Notify регистрирует новое изменение контента: запоминает снимок и
// перезапускает таймер тишины. Важен только дедлайн последнего изменения.
func (s *Scheduler) Notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	s.dirty = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.quiet, s.fire)
	} else {
		s.timer.Reset(s.quiet)
	}
}

// Flush - ручной обход таймера. Снимает взведённый таймер, выполняет цикл
// немедленно и остаётся выключенным до следующего Notify. Если изменений
// с последнего сохранения не было, ничего не делает.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.running || !s.dirty {
		// Цикл уже в полёте либо сохранять нечего. Взведённый таймер не
		// снимаем: он отвечает за снимок, пришедший во время полёта.
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = true
	s.dirty = false
	snap := s.snapshot
	s.mu.Unlock()

	err := s.cycle(snap)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return err
}

// Stop снимает таймер без выполнения цикла. Используется при закрытии сессии.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.dirty = false
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.running {
		// Цикл ещё в полёте: откладываем это срабатывание на следующий период
		if s.timer != nil {
			s.timer.Reset(s.quiet)
		}
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.dirty = false
	snap := s.snapshot
	s.mu.Unlock()

	s.cycle(snap)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Сначала сохранение, затем пересканирование. При ошибке сохранения
// сканирование пропускается.
func (s *Scheduler) cycle(snap Snapshot) error {
	if s.persist != nil {
		if err := s.persist(snap); err != nil {
			s.onError(err)
			return err
		}
	}
	if s.onScan != nil {
		s.onScan(snap)
	}
	return nil
}
