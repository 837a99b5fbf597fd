package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/platform/metrics"
)

const (
	DefaultQueueSize = 100
	refreshTimeout   = 10 * time.Second
)

// StatsRefresher recomputes a user's weekly snapshot and reports whether the
// stored copy changed.
type StatsRefresher interface {
	Refresh(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, bool, error)
}

type StatsJob struct {
	UserID string
}

// StatsWorker serializes snapshot refreshes behind a bounded queue. Writers
// enqueue after every mutation and never wait on the refresh.
type StatsWorker struct {
	refresher StatsRefresher
	jobs      chan StatsJob
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewStatsWorker(refresher StatsRefresher, queueSize int, m *metrics.Metrics) *StatsWorker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &StatsWorker{
		refresher: refresher,
		jobs:      make(chan StatsJob, queueSize),
		metrics:   m,
		logger:    slog.Default().With("component", "stats_worker"),
	}
}

// Start consumes jobs in a goroutine until ctx is done. The returned channel
// closes once the loop has exited.
func (w *StatsWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.logger.Info("[WORKER] stats worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("[WORKER] stats worker shutting down", "pending", len(w.jobs))
				return
			}
		}
	}()
	return done
}

// Enqueue schedules a refresh without blocking. A full queue drops the job;
// the next mutation for the same user schedules another one.
func (w *StatsWorker) Enqueue(userID string) bool {
	if w == nil || userID == "" {
		return false
	}
	select {
	case w.jobs <- StatsJob{UserID: userID}:
		return true
	default:
		w.metrics.JobDropped()
		w.logger.Warn("[WORKER] queue full, dropping refresh", "user_id", userID)
		return false
	}
}

func (w *StatsWorker) Pending() int {
	return len(w.jobs)
}

func (w *StatsWorker) processJob(ctx context.Context, job StatsJob) {
	if w.refresher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	summary, changed, err := w.refresher.Refresh(ctx, job.UserID)
	if err != nil {
		w.metrics.Refresh(metrics.RefreshFailed)
		w.logger.Error("[WORKER] refresh failed", "user_id", job.UserID, "error", err)
		return
	}
	if !changed {
		w.metrics.Refresh(metrics.RefreshUnchanged)
		return
	}

	w.metrics.Refresh(metrics.RefreshPersisted)
	w.logger.Info("[WORKER] weekly stats updated",
		"user_id", job.UserID,
		"current_streak", summary.CurrentStreak,
		"longest_streak", summary.LongestStreak,
		"compliance", summary.Compliance,
	)
}
