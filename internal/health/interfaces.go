package health

import "context"

// Pinger определяет интерфейс для проверки здоровья базы данных
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProxyCounter отдает количество свободных прокси в пуле
type ProxyCounter interface {
	FreeCount() (int, error)
}

// StatsSource отдает метрики прогонов для /stats
type StatsSource interface {
	GetStats() map[string]interface{}
}
