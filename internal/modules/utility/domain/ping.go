package domain

import (
	"fmt"
	"time"
)

// PingResult represents the result of a ping operation.
type PingResult struct {
	Latency time.Duration
}

// NewPingResult creates a PingResult for a command sent at sentAt and
// answered at answeredAt. Clock skew never yields a negative latency.
func NewPingResult(sentAt, answeredAt time.Time) *PingResult {
	return &PingResult{
		Latency: max(answeredAt.Sub(sentAt), 0),
	}
}

// Message returns the text shown to the user.
func (r *PingResult) Message() string {
	return fmt.Sprintf("Roundtrip latency: %dms", r.Latency.Milliseconds())
}
