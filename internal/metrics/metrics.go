// Package metrics содержит внутренние метрики прогонов обновления.
package metrics

import (
	"sync"
	"time"

	"igmonitor/internal/refresher"
)

// Recorder собирает счетчики исходов прогонов обновления.
// Реализует refresher.Metrics.
type Recorder struct {
	mu           sync.RWMutex
	outcomes     map[string]int64
	unclassified int64
	startedAt    time.Time
}

// NewRecorder создает новый сборщик метрик
func NewRecorder() *Recorder {
	return &Recorder{
		outcomes:  make(map[string]int64),
		startedAt: time.Now(),
	}
}

// RecordOutcome записывает классифицированный исход прогона
func (r *Recorder) RecordOutcome(outcome refresher.OutcomeKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome.String()]++
}

// RecordUnclassified записывает прогон, завершившийся неклассифицированной ошибкой
func (r *Recorder) RecordUnclassified() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unclassified++
}

// GetStats возвращает все метрики в виде map
func (r *Recorder) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outcomes := make(map[string]int64, len(r.outcomes))
	var total int64
	for outcome, count := range r.outcomes {
		outcomes[outcome] = count
		total += count
	}

	return map[string]interface{}{
		"outcomes":       outcomes,
		"total_runs":     total,
		"unclassified":   r.unclassified,
		"uptime_seconds": int64(time.Since(r.startedAt).Seconds()),
	}
}
