package service

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ProgressSweeper periodically removes expired progress slots. It runs off
// the request-serving paths; a failing sweep is logged and retried on the
// next tick, never fatal to the process.
type ProgressSweeper struct {
	tracker  ProgressTrackerService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewProgressSweeper(tracker ProgressTrackerService, interval time.Duration) *ProgressSweeper {
	return &ProgressSweeper{
		tracker:  tracker,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *ProgressSweeper) Start() {
	go s.run()
	log.Info().Dur("interval", s.interval).Msg("Progress sweeper started")
}

func (s *ProgressSweeper) Stop() {
	close(s.stop)
	<-s.done
	log.Info().Msg("Progress sweeper stopped")
}

func (s *ProgressSweeper) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.tracker.CleanupExpired(); err != nil {
				log.Error().Err(err).Msg("Progress sweep failed")
			}
		case <-s.stop:
			return
		}
	}
}
