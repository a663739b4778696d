package infrastructure

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
	"golang.org/x/time/rate"
)

// youtubeSearchPrefix makes the audio node search YouTube instead of
// treating the identifier as a URL.
const youtubeSearchPrefix = "ytsearch:"

var (
	errSpotifyDisabled = domain.NewError(
		domain.KindProviderUnavailable,
		"Spotify links aren't available on this bot!",
	)
	errUnsupportedQuery = domain.NewError(
		domain.KindUnsupportedQuery,
		"Your query type isn't supported!",
	)
)

// TrackLoader loads tracks from the audio node.
type TrackLoader interface {
	LoadTracks(ctx context.Context, identifier string) ([]LoadedTrack, error)
}

// Catalog reads track metadata from a streaming catalog.
type Catalog interface {
	Expired() bool
	Refresh(ctx context.Context) error
	Track(ctx context.Context, id string) (domain.PlaylistItem, error)
	PlaylistItems(ctx context.Context, id string) ([]domain.PlaylistItem, error)
}

// MediaProvider implements ports.MediaProvider. YouTube searches, videos and
// playlists go through the audio node; Spotify links are translated into
// YouTube searches using catalog metadata. Every upstream call waits on the
// rate limiter.
type MediaProvider struct {
	loader  TrackLoader
	catalog Catalog // nil disables Spotify links
	limiter *rate.Limiter
}

// NewMediaProvider creates a new MediaProvider. catalog may be nil.
func NewMediaProvider(loader TrackLoader, catalog Catalog, limiter *rate.Limiter) *MediaProvider {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &MediaProvider{
		loader:  loader,
		catalog: catalog,
		limiter: limiter,
	}
}

// Classify parses a user query.
func (p *MediaProvider) Classify(query string) domain.Query {
	return domain.ParseQuery(query)
}

// LookupTrack returns up to limit tracks for a search term, YouTube video or
// Spotify track.
func (p *MediaProvider) LookupTrack(ctx context.Context, query string, limit int) ([]domain.TrackInfo, error) {
	q := p.Classify(query)

	var identifier string
	switch q.Kind {
	case domain.QuerySearch:
		identifier = youtubeSearchPrefix + q.Raw
	case domain.QueryYouTubeVideo:
		identifier = "https://www.youtube.com/watch?v=" + q.ID
	case domain.QuerySpotifyTrack:
		if p.catalog == nil {
			return nil, errSpotifyDisabled
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		item, err := p.catalog.Track(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		identifier = youtubeSearchPrefix + item.SearchTerm()
	default:
		return nil, errUnsupportedQuery
	}

	tracks, err := p.load(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return lo.Map(tracks, func(t LoadedTrack, _ int) domain.TrackInfo {
		return t.Info
	}), nil
}

// LookupPlaylistTracks lists a playlist's items without resolving them.
func (p *MediaProvider) LookupPlaylistTracks(ctx context.Context, q domain.Query) ([]domain.PlaylistItem, error) {
	switch q.Kind {
	case domain.QuerySpotifyPlaylist:
		if p.catalog == nil {
			return nil, errSpotifyDisabled
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return p.catalog.PlaylistItems(ctx, q.ID)

	case domain.QueryYouTubePlaylist:
		tracks, err := p.load(ctx, "https://www.youtube.com/playlist?list="+q.ID)
		if err != nil {
			return nil, err
		}
		return lo.Map(tracks, func(t LoadedTrack, _ int) domain.PlaylistItem {
			return domain.PlaylistItem{Title: t.Info.Title}
		}), nil

	default:
		return nil, errUnsupportedQuery
	}
}

// OpenStream loads the track at locator and returns its encoded form.
func (p *MediaProvider) OpenStream(ctx context.Context, locator string) (*domain.PlayableResource, error) {
	tracks, err := p.load(ctx, locator)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 || tracks[0].Encoded == "" {
		return nil, fmt.Errorf("no playable track at %q", locator)
	}

	return &domain.PlayableResource{
		Encoded:   tracks[0].Encoded,
		MediaType: "lavalink",
	}, nil
}

// TokenExpired reports whether the catalog needs a new token. It is always
// false when Spotify is disabled.
func (p *MediaProvider) TokenExpired() bool {
	return p.catalog != nil && p.catalog.Expired()
}

// RefreshToken refreshes the catalog token.
func (p *MediaProvider) RefreshToken(ctx context.Context) error {
	if p.catalog == nil {
		return nil
	}
	return p.catalog.Refresh(ctx)
}

func (p *MediaProvider) load(ctx context.Context, identifier string) ([]LoadedTrack, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.loader.LoadTracks(ctx, identifier)
}

// Ensure MediaProvider implements ports.MediaProvider.
var _ ports.MediaProvider = (*MediaProvider)(nil)
