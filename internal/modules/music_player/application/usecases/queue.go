package usecases

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// QueueListInput contains the input for the List use case.
type QueueListInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
	Page                  int // 1-based; 0 means the first page
}

// QueueListOutput contains the result of the List use case.
type QueueListOutput struct {
	Page domain.QueuePage
}

// QueueShuffleInput contains the input for the Shuffle use case.
type QueueShuffleInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

// QueueService handles queue inspection and reordering.
type QueueService struct {
	registry application.ControllerRegistry
}

// NewQueueService creates a new QueueService.
func NewQueueService(registry application.ControllerRegistry) *QueueService {
	return &QueueService{registry: registry}
}

// List returns one page of the guild's queue.
func (q *QueueService) List(input QueueListInput) (*QueueListOutput, error) {
	controller, ok := activeController(q.registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		return nil, ErrNotPlaying
	}

	page := input.Page
	if page == 0 {
		page = 1
	}

	result, err := controller.QueuePage(page)
	if err != nil {
		return nil, err
	}

	return &QueueListOutput{Page: result}, nil
}

// Shuffle randomizes every queued song after the current one.
func (q *QueueService) Shuffle(input QueueShuffleInput) domain.Result {
	controller, ok := activeController(q.registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		return domain.FailureFrom(ErrNotPlaying)
	}

	return controller.Shuffle()
}
