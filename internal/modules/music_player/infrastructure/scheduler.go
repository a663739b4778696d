package infrastructure

import (
	"time"

	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
)

// TimeScheduler schedules calls on the runtime timer.
type TimeScheduler struct{}

// NewTimeScheduler creates a new TimeScheduler.
func NewTimeScheduler() *TimeScheduler {
	return &TimeScheduler{}
}

// AfterFunc calls f in its own goroutine after d.
func (TimeScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

// Ensure TimeScheduler implements ports.Scheduler.
var _ ports.Scheduler = (*TimeScheduler)(nil)
