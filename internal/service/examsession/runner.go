package examsession

import (
	"context"
	"log"
	"time"
)

// Runner ведёт посекундный отсчет времени активного предмета.
// Единственный тикер на процесс: весь отсчет проходит через
// Manager.DecrementTime, поэтому гонок между тикером и пользовательскими
// операциями нет.
type Runner struct {
	manager *Manager
	config  *Config

	// onExpire вызывается в горутине тикера в момент истечения времени
	onExpire func()
}

// NewRunner создает новый отсчетчик времени сессии
func NewRunner(manager *Manager, config *Config, onExpire func()) *Runner {
	return &Runner{
		manager:  manager,
		config:   config,
		onExpire: onExpire,
	}
}

// Run запускает цикл отсчета до отмены контекста.
// Предполагается запуск в отдельной горутине из main.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	log.Println("[ExamSession] Запуск таймера сессии")

	for {
		select {
		case <-ticker.C:
			if r.manager.DecrementTime() && r.onExpire != nil {
				log.Println("[ExamSession] Время предмета истекло, принудительная отправка ответов")
				r.onExpire()
			}
		case <-ctx.Done():
			log.Println("[ExamSession] Таймер сессии остановлен")
			return
		}
	}
}
