package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1)
	testUserID         = snowflake.ID(2)
	testTextChannelID  = snowflake.ID(3)
	testVoiceChannelID = snowflake.ID(4)
)

type mockRegistry struct {
	mu          sync.Mutex
	controllers map[snowflake.ID]*application.PlaybackController
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{controllers: make(map[snowflake.ID]*application.PlaybackController)}
}

func (m *mockRegistry) Get(guildID snowflake.ID) (*application.PlaybackController, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[guildID]
	return c, ok
}

func (m *mockRegistry) Register(c *application.PlaybackController) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.controllers[c.GuildID()]; ok {
		return application.ErrControllerExists
	}
	m.controllers[c.GuildID()] = c
	return nil
}

func (m *mockRegistry) Remove(guildID snowflake.ID, c *application.PlaybackController) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.controllers[guildID] != c {
		return false
	}
	delete(m.controllers, guildID)
	return true
}

type mockVoiceConnection struct {
	mu        sync.Mutex
	joinErr   error
	connected map[snowflake.ID]bool
	joins     int
	leaves    int
}

func newMockVoiceConnection() *mockVoiceConnection {
	return &mockVoiceConnection{connected: make(map[snowflake.ID]bool)}
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, guildID, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins++
	if m.joinErr != nil {
		return m.joinErr
	}
	m.connected[guildID] = true
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	delete(m.connected, guildID)
	return nil
}

func (m *mockVoiceConnection) IsConnected(guildID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected[guildID]
}

// drop simulates the voice connection going away without an event.
func (m *mockVoiceConnection) drop(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connected, guildID)
}

type mockAudioPlayer struct {
	mu     sync.Mutex
	played []string
	stops  int
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, r *domain.PlayableResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, r.Encoded)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

type mockMediaProvider struct {
	tracks    map[string][]domain.TrackInfo
	lookupErr error
	limits    []int
}

func newMockMediaProvider() *mockMediaProvider {
	return &mockMediaProvider{tracks: make(map[string][]domain.TrackInfo)}
}

func (m *mockMediaProvider) addTrack(query, title string) {
	m.tracks[query] = append(m.tracks[query], domain.TrackInfo{
		Title:    title,
		Duration: 3 * time.Minute,
		Locator:  "loc:" + title,
	})
}

func (m *mockMediaProvider) Classify(query string) domain.Query {
	return domain.ParseQuery(query)
}

func (m *mockMediaProvider) LookupTrack(_ context.Context, query string, limit int) ([]domain.TrackInfo, error) {
	m.limits = append(m.limits, limit)
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.tracks[query], nil
}

func (m *mockMediaProvider) LookupPlaylistTracks(_ context.Context, _ domain.Query) ([]domain.PlaylistItem, error) {
	return nil, nil
}

func (m *mockMediaProvider) OpenStream(_ context.Context, locator string) (*domain.PlayableResource, error) {
	return &domain.PlayableResource{Encoded: locator}, nil
}

func (m *mockMediaProvider) TokenExpired() bool { return false }

func (m *mockMediaProvider) RefreshToken(_ context.Context) error { return nil }

type mockVoiceStateProvider struct {
	channels  map[snowflake.ID]snowflake.ID // userID -> channelID
	listeners []snowflake.ID
	denied    bool
	err       error
}

func newMockVoiceStateProvider() *mockVoiceStateProvider {
	return &mockVoiceStateProvider{channels: make(map[snowflake.ID]snowflake.ID)}
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

func (m *mockVoiceStateProvider) ChannelListeners(_, _ snowflake.ID) ([]snowflake.ID, error) {
	return m.listeners, nil
}

func (m *mockVoiceStateProvider) CanJoin(_, _ snowflake.ID) bool {
	return !m.denied
}

type mockNotifier struct{}

func (mockNotifier) SendMessage(_ snowflake.ID, _ string) error { return nil }

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

type noopScheduler struct{}

func (noopScheduler) AfterFunc(_ time.Duration, _ func()) ports.Timer { return noopTimer{} }

type testEnv struct {
	registry   *mockRegistry
	voice      *mockVoiceConnection
	player     *mockAudioPlayer
	provider   *mockMediaProvider
	voiceState *mockVoiceStateProvider
}

func newTestEnv() *testEnv {
	env := &testEnv{
		registry:   newMockRegistry(),
		voice:      newMockVoiceConnection(),
		player:     &mockAudioPlayer{},
		provider:   newMockMediaProvider(),
		voiceState: newMockVoiceStateProvider(),
	}
	env.voiceState.channels[testUserID] = testVoiceChannelID
	return env
}

func (e *testEnv) deps() application.ControllerDeps {
	return application.ControllerDeps{
		Registry:   e.registry,
		Voice:      e.voice,
		Player:     e.player,
		Provider:   e.provider,
		VoiceState: e.voiceState,
		Notifier:   mockNotifier{},
		Scheduler:  noopScheduler{},
	}
}

// connect creates a registered controller for testGuildID.
func (e *testEnv) connect() *application.PlaybackController {
	c, err := application.NewPlaybackController(
		context.Background(),
		e.deps(),
		testGuildID,
		testVoiceChannelID,
		testTextChannelID,
	)
	if err != nil {
		panic(err)
	}
	return c
}
