package usecases

import (
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Result is an alias for domain.Result.
type Result = domain.Result

// QueuePage is an alias for domain.QueuePage.
type QueuePage = domain.QueuePage

// FailureFrom converts err into a failure Result.
func FailureFrom(err error) Result {
	return domain.FailureFrom(err)
}
