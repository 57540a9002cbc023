package cloudsync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"noc-sync/internal/logging"
)

// Scheduler fires one sync pass per day at a fixed wall-clock time. It
// holds no state beyond the parsed trigger time; a tick missed because the
// process was down is skipped, never backfilled.
type Scheduler struct {
	engine *Engine
	logger *logging.Logger
	hour   int
	minute int
}

func NewScheduler(engine *Engine, syncTime string, logger *logging.Logger) (*Scheduler, error) {
	hour, minute, err := parseClock(syncTime)
	if err != nil {
		return nil, err
	}
	return &Scheduler{engine: engine, logger: logger, hour: hour, minute: minute}, nil
}

// Run blocks until ctx is cancelled, triggering a pass at each daily tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Infof("daily sync scheduled for %02d:%02d", s.hour, s.minute)
	for {
		next := s.NextAfter(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.logger.Infof("scheduled sync triggered (%02d:%02d)", s.hour, s.minute)
			s.engine.Sync(ctx)
		}
	}
}

// NextAfter returns the next occurrence of the configured wall-clock time
// strictly after now, in now's location.
func (s *Scheduler) NextAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// parseClock accepts "HH:MM" on a 24-hour clock.
func parseClock(v string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid sync time %q: want HH:MM", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid sync time %q: bad hour", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid sync time %q: bad minute", v)
	}
	return hour, minute, nil
}
