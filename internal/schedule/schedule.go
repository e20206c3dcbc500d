// Package schedule runs periodic maintenance jobs.
package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with logging and a per-run timeout.
type Scheduler struct {
	cron    *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
}

// New creates a scheduler. Each run gets timeout to finish.
func New(log logrus.FieldLogger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		log:     log,
		timeout: timeout,
	}
}

// Add registers job under name on the given cron spec.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	return err
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	entry := s.log.WithField("job", name)
	if err := job(ctx); err != nil {
		entry.WithError(err).Error("job failed")
		return
	}
	entry.WithField("duration", time.Since(start)).Debug("job finished")
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
