package usecases

import (
	"context"
	"strings"

	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// defaultSearchLimit is the number of suggestions returned when no limit is given.
const defaultSearchLimit = 10

// SearchTracksInput contains the input for the SearchTracks use case.
type SearchTracksInput struct {
	Query string
	Limit int
}

// SearchTracksOutput contains the result of the SearchTracks use case.
type SearchTracksOutput struct {
	Tracks []domain.TrackInfo
}

// TrackLoaderService handles track search operations.
type TrackLoaderService struct {
	provider ports.MediaProvider
}

// NewTrackLoaderService creates a new TrackLoaderService.
func NewTrackLoaderService(provider ports.MediaProvider) *TrackLoaderService {
	return &TrackLoaderService{
		provider: provider,
	}
}

// SearchTracks returns up to Limit tracks matching a free-text query. URLs
// and blank queries yield no suggestions.
func (s *TrackLoaderService) SearchTracks(
	ctx context.Context,
	input SearchTracksInput,
) (*SearchTracksOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return &SearchTracksOutput{Tracks: nil}, nil
	}

	if s.provider.Classify(input.Query).Kind != domain.QuerySearch {
		return &SearchTracksOutput{Tracks: nil}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	tracks, err := s.provider.LookupTrack(ctx, input.Query, limit)
	if err != nil {
		return nil, err
	}

	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	return &SearchTracksOutput{
		Tracks: tracks,
	}, nil
}
