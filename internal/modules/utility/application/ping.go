package application

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/utility/domain"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	now func() time.Time
}

// NewPingInteractor creates a new PingInteractor. now defaults to time.Now.
func NewPingInteractor(now func() time.Time) *PingInteractor {
	if now == nil {
		now = time.Now
	}
	return &PingInteractor{now: now}
}

// Execute measures the time since the interaction was created. The creation
// time is encoded in the interaction's snowflake ID.
func (p *PingInteractor) Execute(interactionID string) (*domain.PingResult, error) {
	id, err := snowflake.Parse(interactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid interaction ID: %w", err)
	}

	return domain.NewPingResult(id.Time(), p.now()), nil
}
