package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1000)
	testVoiceChannelID = snowflake.ID(2000)
	testTextChannelID  = snowflake.ID(3000)
	testUserID         = snowflake.ID(42)
)

type mockRegistry struct {
	mu          sync.Mutex
	controllers map[snowflake.ID]*PlaybackController
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{controllers: make(map[snowflake.ID]*PlaybackController)}
}

func (m *mockRegistry) Get(guildID snowflake.ID) (*PlaybackController, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[guildID]
	return c, ok
}

func (m *mockRegistry) Register(c *PlaybackController) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.controllers[c.GuildID()]; ok {
		return ErrControllerExists
	}
	m.controllers[c.GuildID()] = c
	return nil
}

func (m *mockRegistry) Remove(guildID snowflake.ID, c *PlaybackController) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.controllers[guildID] != c {
		return false
	}
	delete(m.controllers, guildID)
	return true
}

type mockVoiceConnection struct {
	mu           sync.Mutex
	joinErr      error
	disconnected bool
	joins        int
	leaves       int
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins++
	return m.joinErr
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return nil
}

func (m *mockVoiceConnection) IsConnected(_ snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joinErr == nil && !m.disconnected
}

func (m *mockVoiceConnection) leaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves
}

type mockAudioPlayer struct {
	mu       sync.Mutex
	playErrs map[string]error // by encoded track
	stopErr  error
	played   []string
	stops    int
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, r *domain.PlayableResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playErrs[r.Encoded]; err != nil {
		return err
	}
	m.played = append(m.played, r.Encoded)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return m.stopErr
}

func (m *mockAudioPlayer) playedTracks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}

func (m *mockAudioPlayer) stopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

type mockMediaProvider struct {
	mu         sync.Mutex
	tracks     map[string][]domain.TrackInfo
	playlists  map[string][]domain.PlaylistItem
	lookupErr  error
	openErrs   map[string]error // by locator
	openGates  map[string]chan struct{}
	expired    bool
	refreshErr error
	calls      []string
}

func newMockMediaProvider() *mockMediaProvider {
	return &mockMediaProvider{
		tracks:    make(map[string][]domain.TrackInfo),
		playlists: make(map[string][]domain.PlaylistItem),
		openErrs:  make(map[string]error),
		openGates: make(map[string]chan struct{}),
	}
}

// addTrack makes query resolve to a track titled title with locator "loc:"+title.
func (m *mockMediaProvider) addTrack(query, title string) {
	m.tracks[query] = []domain.TrackInfo{{
		Title:    title,
		Duration: 3 * time.Minute,
		Locator:  "loc:" + title,
	}}
}

func (m *mockMediaProvider) Classify(query string) domain.Query {
	return domain.ParseQuery(query)
}

func (m *mockMediaProvider) LookupTrack(_ context.Context, query string, _ int) ([]domain.TrackInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "lookup:"+query)
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.tracks[query], nil
}

func (m *mockMediaProvider) LookupPlaylistTracks(_ context.Context, q domain.Query) ([]domain.PlaylistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "playlist:"+q.Raw)
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.playlists[q.Raw], nil
}

// gateOpen makes OpenStream for locator block until gate is closed.
func (m *mockMediaProvider) gateOpen(locator string, gate chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openGates[locator] = gate
}

func (m *mockMediaProvider) OpenStream(ctx context.Context, locator string) (*domain.PlayableResource, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "open:"+locator)
	gate := m.openGates[locator]
	err := m.openErrs[locator]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &domain.PlayableResource{Encoded: locator, MediaType: "opus"}, nil
}

func (m *mockMediaProvider) TokenExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

func (m *mockMediaProvider) RefreshToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "refresh")
	if m.refreshErr != nil {
		return m.refreshErr
	}
	m.expired = false
	return nil
}

func (m *mockMediaProvider) callsWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			result = append(result, c)
		}
	}
	return result
}

type mockVoiceStateProvider struct {
	mu        sync.Mutex
	listeners []snowflake.ID
	err       error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return testVoiceChannelID, nil
}

func (m *mockVoiceStateProvider) ChannelListeners(_, _ snowflake.ID) ([]snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]snowflake.ID(nil), m.listeners...), nil
}

func (m *mockVoiceStateProvider) CanJoin(_, _ snowflake.ID) bool {
	return true
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	channels []snowflake.ID
}

func (m *mockNotifier) SendMessage(channelID snowflake.ID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channelID)
	m.messages = append(m.messages, content)
	return nil
}

func (m *mockNotifier) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

type fakeTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback as if the delay had elapsed, unless stopped.
func (t *fakeTimer) Fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.f()
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type testEnv struct {
	registry   *mockRegistry
	voice      *mockVoiceConnection
	player     *mockAudioPlayer
	provider   *mockMediaProvider
	voiceState *mockVoiceStateProvider
	notifier   *mockNotifier
	scheduler  *fakeScheduler
}

func newTestEnv() *testEnv {
	return &testEnv{
		registry:   newMockRegistry(),
		voice:      &mockVoiceConnection{},
		player:     &mockAudioPlayer{playErrs: make(map[string]error)},
		provider:   newMockMediaProvider(),
		voiceState: &mockVoiceStateProvider{},
		notifier:   &mockNotifier{},
		scheduler:  &fakeScheduler{},
	}
}

func (e *testEnv) deps() ControllerDeps {
	return ControllerDeps{
		Registry:    e.registry,
		Voice:       e.voice,
		Player:      e.player,
		Provider:    e.provider,
		VoiceState:  e.voiceState,
		Notifier:    e.notifier,
		Scheduler:   e.scheduler,
		IdleTimeout: DefaultIdleTimeout,
	}
}

func (e *testEnv) newController() (*PlaybackController, error) {
	return NewPlaybackController(
		context.Background(),
		e.deps(),
		testGuildID,
		testVoiceChannelID,
		testTextChannelID,
	)
}
