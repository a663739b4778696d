package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// spotifyPageSize is the largest page the playlist endpoint returns.
const spotifyPageSize = 100

var errSpotifyTokenExpired = errors.New("spotify access token expired")

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// SpotifyCatalog reads track and playlist metadata from the Spotify Web API
// using the client credentials flow. The access token is refreshed
// explicitly through Refresh; requests made with an expired token fail.
type SpotifyCatalog struct {
	credentials *clientcredentials.Config
	client      *spotify.Client

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewSpotifyCatalog creates a new SpotifyCatalog. No token is fetched until
// the first Refresh.
func NewSpotifyCatalog(config SpotifyConfig) *SpotifyCatalog {
	catalog := &SpotifyCatalog{
		credentials: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
	}
	catalog.client = spotify.New(&http.Client{
		Transport: &oauth2.Transport{
			Source: catalog,
			Base:   http.DefaultTransport,
		},
	})
	return catalog
}

// Token implements oauth2.TokenSource with the current access token.
func (c *SpotifyCatalog) Token() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil || !c.token.Valid() {
		return nil, errSpotifyTokenExpired
	}
	return c.token, nil
}

// Expired reports whether the access token is missing or expired.
func (c *SpotifyCatalog) Expired() bool {
	_, err := c.Token()
	return err != nil
}

// Refresh fetches a new access token.
func (c *SpotifyCatalog) Refresh(ctx context.Context) error {
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch spotify token: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	slog.Debug("refreshed spotify token", "expiry", token.Expiry)
	return nil
}

// Track returns the title and first artist of a track.
func (c *SpotifyCatalog) Track(ctx context.Context, id string) (domain.PlaylistItem, error) {
	track, err := c.client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return domain.PlaylistItem{}, spotifyError(err)
	}
	return playlistItemFromTrack(track), nil
}

// PlaylistItems returns every track of a playlist in order.
func (c *SpotifyCatalog) PlaylistItems(ctx context.Context, id string) ([]domain.PlaylistItem, error) {
	page, err := c.client.GetPlaylistTracks(ctx, spotify.ID(id), spotify.Limit(spotifyPageSize))
	if err != nil {
		return nil, spotifyError(err)
	}

	items := make([]domain.PlaylistItem, 0, page.Total)
	for {
		for i := range page.Tracks {
			track := &page.Tracks[i].Track
			if track.Name == "" {
				continue
			}
			items = append(items, playlistItemFromTrack(track))
		}

		err := c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, spotifyError(err)
		}
	}

	return items, nil
}

func playlistItemFromTrack(track *spotify.FullTrack) domain.PlaylistItem {
	item := domain.PlaylistItem{Title: track.Name}
	if len(track.Artists) > 0 {
		item.Artist = track.Artists[0].Name
	}
	return item
}

// spotifyError maps a missing resource to NotFound and passes anything else
// through for the caller to treat as a provider failure.
func spotifyError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest) {
		return domain.WrapError(domain.KindNotFound, "I couldn't find your query!", err)
	}
	return fmt.Errorf("spotify request failed: %w", err)
}
