package domain

import (
	"net/url"
	"strings"
)

// QueryKind is the classification of a /play query.
type QueryKind int

const (
	// QueryUnsupported is a URL or reference no provider understands.
	QueryUnsupported QueryKind = iota
	// QuerySearch is a free-text search term.
	QuerySearch
	// QueryYouTubeVideo is a link to a single YouTube video.
	QueryYouTubeVideo
	// QuerySpotifyTrack is a link to a single Spotify track.
	QuerySpotifyTrack
	// QueryYouTubePlaylist is a link to a YouTube playlist.
	QueryYouTubePlaylist
	// QuerySpotifyPlaylist is a link to a Spotify playlist.
	QuerySpotifyPlaylist
)

// String returns the string representation of the kind.
func (k QueryKind) String() string {
	switch k {
	case QuerySearch:
		return "search"
	case QueryYouTubeVideo:
		return "yt_video"
	case QuerySpotifyTrack:
		return "sp_track"
	case QueryYouTubePlaylist:
		return "yt_playlist"
	case QuerySpotifyPlaylist:
		return "sp_playlist"
	default:
		return "unsupported"
	}
}

// IsSingleTrack reports whether the query yields exactly one queue entry.
func (k QueryKind) IsSingleTrack() bool {
	return k == QuerySearch || k == QueryYouTubeVideo || k == QuerySpotifyTrack
}

// IsPlaylist reports whether the query expands to many queue entries.
func (k QueryKind) IsPlaylist() bool {
	return k == QueryYouTubePlaylist || k == QuerySpotifyPlaylist
}

// NeedsCatalog reports whether looking the query up goes through the
// Spotify catalog.
func (k QueryKind) NeedsCatalog() bool {
	return k == QuerySpotifyTrack || k == QuerySpotifyPlaylist
}

// Query is a classified /play query.
type Query struct {
	Raw  string
	Kind QueryKind
	// ID is the provider's identifier for the referenced item: the Spotify
	// track or playlist ID, the YouTube video or playlist ID. Empty for searches.
	ID string
}

// ParseQuery classifies user input.
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	q := Query{Raw: input}

	if input == "" {
		q.Kind = QueryUnsupported
		return q
	}

	if rest, ok := strings.CutPrefix(input, "spotify:"); ok {
		q.Kind, q.ID = classifySpotifyPath(strings.Split(rest, ":"))
		return q
	}

	if !isURL(input) {
		q.Kind = QuerySearch
		return q
	}

	u, err := url.Parse(withScheme(input))
	if err != nil {
		q.Kind = QueryUnsupported
		return q
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := pathSegments(u.Path)

	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		q.Kind, q.ID = classifyYouTube(u, segments)
	case "youtu.be":
		if len(segments) > 0 {
			q.Kind, q.ID = QueryYouTubeVideo, segments[0]
		}
	case "open.spotify.com", "play.spotify.com":
		q.Kind, q.ID = classifySpotifyPath(segments)
	default:
		q.Kind = QueryUnsupported
	}

	return q
}

func classifyYouTube(u *url.URL, segments []string) (QueryKind, string) {
	values := u.Query()
	if len(segments) == 0 {
		return QueryUnsupported, ""
	}

	switch segments[0] {
	case "watch":
		if v := values.Get("v"); v != "" {
			return QueryYouTubeVideo, v
		}
	case "shorts", "live", "embed":
		if len(segments) > 1 {
			return QueryYouTubeVideo, segments[1]
		}
	case "playlist":
		if list := values.Get("list"); list != "" {
			return QueryYouTubePlaylist, list
		}
	}
	return QueryUnsupported, ""
}

// classifySpotifyPath accepts both URL paths (track/ID, intl-xx/track/ID)
// and URI parts (track:ID).
func classifySpotifyPath(segments []string) (QueryKind, string) {
	if len(segments) > 0 && strings.HasPrefix(segments[0], "intl-") {
		segments = segments[1:]
	}
	if len(segments) < 2 || segments[1] == "" {
		return QueryUnsupported, ""
	}

	switch segments[0] {
	case "track":
		return QuerySpotifyTrack, segments[1]
	case "playlist":
		return QuerySpotifyPlaylist, segments[1]
	default:
		return QueryUnsupported, ""
	}
}

func pathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}

func withScheme(input string) string {
	if strings.HasPrefix(input, "www.") {
		return "https://" + input
	}
	return input
}
