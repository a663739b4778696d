package ports

import (
	"context"

	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// MediaProvider looks up, lists and opens media for queue entries.
type MediaProvider interface {
	domain.TrackResolver

	// Classify parses a user query into a kind and provider identifier.
	Classify(query string) domain.Query

	// LookupPlaylistTracks lists the items of a playlist without looking
	// each of them up.
	LookupPlaylistTracks(ctx context.Context, query domain.Query) ([]domain.PlaylistItem, error)

	// TokenExpired reports whether the catalog credentials need a refresh.
	TokenExpired() bool

	// RefreshToken obtains fresh catalog credentials. It returns once the
	// new token is usable.
	RefreshToken(ctx context.Context) error
}
