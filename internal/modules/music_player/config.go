package music_player

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"           envDefault:"false"`

	// Spotify links are rejected unless both credentials are set.
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	IdleTimeout time.Duration `env:"MUSIC_IDLE_TIMEOUT" envDefault:"180s"`

	// LookupRate is the sustained number of upstream lookups per second.
	LookupRate  float64 `env:"MUSIC_LOOKUP_RATE"  envDefault:"5"`
	LookupBurst int     `env:"MUSIC_LOOKUP_BURST" envDefault:"10"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IdleTimeout <= 0 {
		return errors.New("MUSIC_IDLE_TIMEOUT must be positive")
	}
	if c.LookupRate <= 0 {
		return errors.New("MUSIC_LOOKUP_RATE must be positive")
	}
	if c.LookupBurst < 1 {
		return errors.New("MUSIC_LOOKUP_BURST must be at least 1")
	}
	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		return errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}
	return nil
}

// SpotifyEnabled reports whether Spotify credentials are configured.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}
