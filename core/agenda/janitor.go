package agenda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iiw24/turma/core"
)

// Janitor runs Service.Cleanup periodically.
type Janitor struct {
	svc      *Service
	interval time.Duration
	timeout  time.Duration
	logger   core.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewJanitor(svc *Service, interval time.Duration, logger core.Logger) *Janitor {
	return &Janitor{
		svc:      svc,
		interval: interval,
		timeout:  time.Minute,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start blocks until ctx is done or Stop is called. A non-positive interval disables the janitor.
func (j *Janitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info("agenda janitor disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info(fmt.Sprintf("agenda janitor started (every %s)", j.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}

// RunOnce performs a single cleanup and reports its outcome.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	removed, err := j.svc.Cleanup(ctx)
	if err != nil {
		j.logger.Error(fmt.Sprintf("agenda cleanup failed: %v", err), err)
		return 0, err
	}
	if removed > 0 {
		j.logger.Info(fmt.Sprintf("agenda cleanup removed %d expired item(s)", removed))
	}
	return removed, nil
}
