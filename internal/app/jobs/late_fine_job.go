package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/pkg/metrics"
)

// DefaultRunTimeout bounds a single late fine run
const DefaultRunTimeout = 4 * time.Minute

// LateFineJob imposes the class late fine on every unpaid student of the current month
type LateFineJob struct {
	fees     services.FeeLedgerService
	schedule string
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewLateFineJob creates a job running on schedule, a standard five-field cron spec
func NewLateFineJob(fees services.FeeLedgerService, schedule string) *LateFineJob {
	return &LateFineJob{
		fees:     fees,
		schedule: schedule,
		timeout:  DefaultRunTimeout,
		now:      time.Now,
		log:      logger.Component("late_fine_job"),
	}
}

// Start registers the job and starts the scheduler in its own goroutine
func (j *LateFineJob) Start() error {
	cl := cronLogger{log: j.log}
	j.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.Run(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule late fine job: %w", err)
	}

	j.cron.Start()
	j.log.Info().Str("schedule", j.schedule).Msg("Late fine job started")
	return nil
}

// Stop halts the scheduler. The returned context is done once a running job has finished.
func (j *LateFineJob) Stop() context.Context {
	if j.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return j.cron.Stop()
}

// Run imposes the fines for the current month once and returns how many were imposed
func (j *LateFineJob) Run(ctx context.Context) (int, error) {
	month := helpers.MonthName(j.now())
	started := time.Now()

	imposed, err := j.fees.ImposeLateFinesForMonth(ctx, month)
	metrics.LateFineJobRun(imposed, err)
	if err != nil {
		j.log.Error().Err(err).Str("month", month).Int("imposed", imposed).Msg("Late fine run failed")
		return imposed, err
	}

	j.log.Info().
		Str("month", month).
		Int("imposed", imposed).
		Dur("took", time.Since(started)).
		Msg("Late fine run completed")
	return imposed, nil
}

// cronLogger routes scheduler messages through zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
