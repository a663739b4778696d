package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

func TestSpotifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.ErrorKind
	}{
		{
			name:     "missing resource",
			err:      spotify.Error{Message: "Resource not found", Status: http.StatusNotFound},
			wantKind: domain.KindNotFound,
		},
		{
			name:     "invalid id",
			err:      spotify.Error{Message: "invalid id", Status: http.StatusBadRequest},
			wantKind: domain.KindNotFound,
		},
		{
			name: "server error",
			err:  spotify.Error{Message: "Service unavailable", Status: http.StatusServiceUnavailable},
		},
		{
			name: "transport error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := spotifyError(tt.err)

			kind, ok := domain.KindOf(err)
			if tt.wantKind == 0 {
				if ok {
					t.Errorf("expected plain error, got kind %v", kind)
				}
			} else if kind != tt.wantKind {
				t.Errorf("expected kind %v, got %v", tt.wantKind, kind)
			}
			if !errors.Is(err, tt.err) {
				t.Error("expected the cause to be kept")
			}
		})
	}
}

func TestSpotifyCatalog_Token(t *testing.T) {
	catalog := NewSpotifyCatalog(SpotifyConfig{ClientID: "id", ClientSecret: "secret"})

	if !catalog.Expired() {
		t.Error("expected a new catalog to need a token")
	}
	if _, err := catalog.Token(); err == nil {
		t.Error("expected error without a token")
	}

	catalog.token = &oauth2.Token{AccessToken: "token", Expiry: time.Now().Add(time.Hour)}
	if catalog.Expired() {
		t.Error("expected a valid token")
	}

	catalog.token = &oauth2.Token{AccessToken: "token", Expiry: time.Now().Add(-time.Minute)}
	if !catalog.Expired() {
		t.Error("expected an expired token")
	}
}

func TestSpotifyCatalog_RequestWithoutToken(t *testing.T) {
	catalog := NewSpotifyCatalog(SpotifyConfig{ClientID: "id", ClientSecret: "secret"})

	_, err := catalog.Track(context.Background(), "4uLU6hMCjMI75M1A2tKUQC")
	if !errors.Is(err, errSpotifyTokenExpired) {
		t.Errorf("expected token error, got %v", err)
	}
}
