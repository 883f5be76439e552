// Пакет для управления cron-задачами приложения.
//
// Основные возможности:
//   - Регистрация именованных задач с расписанием.
//   - Запуск и остановка cron-диспетчера с восстановлением после паник.
package cronmanager

import (
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

type JobFunc func()

type CronManager struct {
	dispatcher *cron.Cron
	mu         sync.Mutex
	jobs       map[string]cron.EntryID
}

func NewCronManager() *CronManager {
	return &CronManager{
		dispatcher: cron.New(
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		jobs: make(map[string]cron.EntryID),
	}
}

// Register добавляет задачу в расписание. Повторная регистрация с тем же
// именем заменяет прежнюю задачу.
func (cm *CronManager) Register(name, schedule string, fn JobFunc) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}

	id, err := cm.dispatcher.AddFunc(schedule, fn)
	if err != nil {
		slog.Error("Failed to add job", "name", name, "err", err)
		return err
	}
	cm.jobs[name] = id
	return nil
}

func (cm *CronManager) Remove(name string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}
}

func (cm *CronManager) Start() {
	cm.dispatcher.Start()
}

// Stop останавливает диспетчер и дожидается завершения запущенных задач.
func (cm *CronManager) Stop() {
	ctx := cm.dispatcher.Stop()
	<-ctx.Done()
}
