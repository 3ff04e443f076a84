package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"homework_status_bot/internal/infra/scheduler"
)

type countingJob struct {
	runs     atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool
	lastCtx  atomic.Value
	hold     time.Duration
}

func (j *countingJob) RunCycle(ctx context.Context) {
	if j.inFlight.Add(1) > 1 {
		j.overlap.Store(true)
	}
	defer j.inFlight.Add(-1)
	j.lastCtx.Store(ctx)
	j.runs.Add(1)
	time.Sleep(j.hold)
}

func newScheduler(job scheduler.Job) *scheduler.PollScheduler {
	logger, _ := test.NewNullLogger()
	return scheduler.NewPollScheduler(job, logrus.NewEntry(logger), time.Second)
}

func TestStart_RunsFirstCycleImmediately(t *testing.T) {
	job := &countingJob{}
	s := newScheduler(job)

	s.Start()
	require.EqualValues(t, 1, job.runs.Load())

	s.Stop()
	ctx := job.lastCtx.Load().(context.Context)
	require.Error(t, ctx.Err(), "cycle context is cancelled on stop")
}

func TestStart_RepeatsAtInterval(t *testing.T) {
	job := &countingJob{}
	s := newScheduler(job)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestStart_CyclesDoNotOverlap(t *testing.T) {
	job := &countingJob{hold: 1500 * time.Millisecond}
	s := newScheduler(job)

	s.Start()
	require.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	require.False(t, job.overlap.Load())
}
