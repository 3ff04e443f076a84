package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one poll cycle. It must handle its own failures.
type Job interface {
	RunCycle(ctx context.Context)
}

type PollScheduler struct {
	cronEngine *cron.Cron
	job        Job
	logger     *logrus.Entry
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewPollScheduler(job Job, logger *logrus.Entry, interval time.Duration) *PollScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &PollScheduler{
		// A tick that arrives while a cycle is still running is dropped, so cycles never overlap.
		cronEngine: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger)))),
		job:        job,
		logger:     logger,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start runs the first cycle right away, then one cycle per interval.
func (s *PollScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting poll scheduler...")

	s.runCycle()

	s.cronEngine.Schedule(cron.Every(s.interval), cron.FuncJob(s.runCycle))
	s.cronEngine.Start()
	s.logger.Info("Poll scheduler started.")
}

func (s *PollScheduler) runCycle() {
	if s.ctx.Err() != nil {
		return
	}
	s.logger.Debug("Poll cycle triggered.")
	s.job.RunCycle(s.ctx)
}

func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	s.cancel()
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Poll scheduler gracefully stopped.")
}
