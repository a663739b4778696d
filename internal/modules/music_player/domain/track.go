package domain

import (
	"context"
	"fmt"
	"time"
)

// TrackInfo is a provider's canonical description of a single track.
type TrackInfo struct {
	Title    string
	Duration time.Duration
	Locator  string // opaque media locator understood by the provider
}

// PlaylistItem is a playlist member as listed by a metadata catalog.
// It carries no locator; the track is looked up by SearchTerm when played.
type PlaylistItem struct {
	Title  string
	Artist string
}

// SearchTerm returns the text used to look the item up.
func (p PlaylistItem) SearchTerm() string {
	if p.Artist == "" {
		return p.Title
	}
	return fmt.Sprintf("%s - %s", p.Artist, p.Title)
}

// PlayableResource is an opened media stream ready to be handed to the audio player.
type PlayableResource struct {
	Encoded   string // encoded track understood by the audio player
	MediaType string
}

// TrackResolver is the part of the media provider a QueueEntry needs to
// resolve and prepare itself.
type TrackResolver interface {
	// LookupTrack returns up to limit tracks matching query.
	LookupTrack(ctx context.Context, query string, limit int) ([]TrackInfo, error)

	// OpenStream opens the media behind a resolved locator.
	OpenStream(ctx context.Context, locator string) (*PlayableResource, error)
}
