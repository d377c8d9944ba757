package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Evicter drops state that has been idle for too long.
type Evicter interface {
	Sweep(now time.Time) int
}

// Sweeper periodically evicts idle sessions.
type Sweeper struct {
	target   Evicter
	interval time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
	stop     chan struct{}
	once     sync.Once
}

func NewSweeper(target Evicter, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		target:   target,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Session sweeper disabled")
		return
	}
	s.logger.Info("Starting session sweeper", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping session sweeper...")
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.logger.Info("Session sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.target.Sweep(now); n > 0 {
				s.logger.Debug("sweep finished", zap.Int("evicted", n))
			}
		}
	}
}
