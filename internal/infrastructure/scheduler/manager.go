// Package scheduler runs the portal's periodic maintenance jobs on gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fixmysite/portal/internal/shared/biztime"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// BatchJob processes one batch and reports how many items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

const (
	DefaultPurgeInterval = 24 * time.Hour
	purgeJobTimeout      = 10 * time.Minute
)

type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterRetentionPurge hard-deletes tickets that stayed soft-deleted past
// the retention window. The first run happens immediately.
func (m *SchedulerManager) RegisterRetentionPurge(purgeJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), purgeJobTimeout)
			defer cancel()
			m.runPurge(ctx, purgeJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("ticket", "retention"),
		gocron.WithName("ticket-retention-purge"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered retention purge job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runPurge(ctx context.Context, purgeJob BatchJob) {
	m.logger.Debugw("retention purge started")

	startTime := biztime.NowUTC()
	purged, err := purgeJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("retention purge failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if purged > 0 {
		m.logger.Infow("soft-deleted tickets purged",
			"count", purged,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no soft-deleted tickets to purge", "duration", time.Since(startTime))
	}
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
