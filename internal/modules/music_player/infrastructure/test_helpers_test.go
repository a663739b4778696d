package infrastructure

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// stubVoiceConnection is a VoiceConnection that always connects.
type stubVoiceConnection struct {
	mu     sync.Mutex
	leaves int
}

func (s *stubVoiceConnection) JoinChannel(context.Context, snowflake.ID, snowflake.ID) error {
	return nil
}

func (s *stubVoiceConnection) LeaveChannel(context.Context, snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves++
	return nil
}

func (s *stubVoiceConnection) IsConnected(snowflake.ID) bool {
	return true
}

// fakeTrackLoader returns canned tracks per identifier and records calls.
type fakeTrackLoader struct {
	tracks      map[string][]LoadedTrack
	err         error
	identifiers []string
}

func newFakeTrackLoader() *fakeTrackLoader {
	return &fakeTrackLoader{tracks: make(map[string][]LoadedTrack)}
}

func (f *fakeTrackLoader) add(identifier, encoded, title string) {
	f.tracks[identifier] = append(f.tracks[identifier], LoadedTrack{
		Encoded: encoded,
		Info: domain.TrackInfo{
			Title:   title,
			Locator: "https://www.youtube.com/watch?v=" + encoded,
		},
	})
}

func (f *fakeTrackLoader) LoadTracks(_ context.Context, identifier string) ([]LoadedTrack, error) {
	f.identifiers = append(f.identifiers, identifier)
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks[identifier], nil
}

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	expired   bool
	refreshes int
	tracks    map[string]domain.PlaylistItem
	playlists map[string][]domain.PlaylistItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks:    make(map[string]domain.PlaylistItem),
		playlists: make(map[string][]domain.PlaylistItem),
	}
}

func (f *fakeCatalog) Expired() bool { return f.expired }

func (f *fakeCatalog) Refresh(context.Context) error {
	f.refreshes++
	f.expired = false
	return nil
}

func (f *fakeCatalog) Track(_ context.Context, id string) (domain.PlaylistItem, error) {
	item, ok := f.tracks[id]
	if !ok {
		return domain.PlaylistItem{}, domain.NewError(domain.KindNotFound, "I couldn't find your query!")
	}
	return item, nil
}

func (f *fakeCatalog) PlaylistItems(_ context.Context, id string) ([]domain.PlaylistItem, error) {
	return f.playlists[id], nil
}

// fakeMessageSender records sent messages.
type fakeMessageSender struct {
	channelID string
	sent      *discordgo.MessageSend
	err       error
}

func (f *fakeMessageSender) ChannelMessageSendComplex(
	channelID string,
	data *discordgo.MessageSend,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	f.channelID = channelID
	f.sent = data
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ChannelID: channelID, Content: data.Content}, nil
}

// fakeMemberFetcher serves members from a map and counts fetches per user.
type fakeMemberFetcher struct {
	members map[string]*discordgo.Member
	fetches map[string]int
}

func (f *fakeMemberFetcher) GuildMember(
	_, userID string,
	_ ...discordgo.RequestOption,
) (*discordgo.Member, error) {
	if f.fetches == nil {
		f.fetches = make(map[string]int)
	}
	f.fetches[userID]++
	member, ok := f.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return member, nil
}
