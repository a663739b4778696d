package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// DefaultIdleTimeout is how long a controller with an empty queue stays
// connected before leaving.
const DefaultIdleTimeout = 180 * time.Second

// maxPlaybackAttempts caps how many queue entries one advance may try
// before giving up.
const maxPlaybackAttempts = 5

// User-facing messages.
const (
	msgNotPlaying    = "I'm not playing music!"
	msgQueueFinished = "There are no more songs in the queue!"
	msgQueueEmpty    = "There aren't any songs in the queue!"
	msgNotFound      = "I couldn't find your query!"
	msgUnsupported   = "Your query type isn't supported!"
	msgProviderDown  = "I couldn't reach the music provider, try again later!"
	msgIdleLeft      = "Left the voice channel due to inactivity."
	msgJoinFailed    = "Failed to join your channel!"
	msgTooManyErrors = "Too many songs failed to play in a row, waiting for new songs."
)

var (
	// ErrControllerExists is returned when a guild already has a live controller.
	ErrControllerExists = errors.New("a playback controller already exists for this guild")

	errNotPlaying = domain.NewError(domain.KindNothingPlaying, msgNotPlaying)
)

// ControllerRegistry maps guilds to their live PlaybackController.
type ControllerRegistry interface {
	// Get returns the controller for the guild, if any.
	Get(guildID snowflake.ID) (*PlaybackController, bool)

	// Register stores the controller. It returns ErrControllerExists if
	// another controller is registered for the same guild.
	Register(controller *PlaybackController) error

	// Remove deletes the guild's entry if it still points at controller.
	Remove(guildID snowflake.ID, controller *PlaybackController) bool
}

// ControllerDeps are the collaborators shared by every PlaybackController.
type ControllerDeps struct {
	Registry    ControllerRegistry
	Voice       ports.VoiceConnection
	Player      ports.AudioPlayer
	Provider    ports.MediaProvider
	VoiceState  ports.VoiceStateProvider
	Notifier    ports.NotificationSender
	Scheduler   ports.Scheduler
	IdleTimeout time.Duration
}

// PlaybackController owns one guild's voice connection and queue and drives
// its audio player. The mutex is never held across provider, transport or
// notification calls; state read before such a call is re-checked after it.
type PlaybackController struct {
	deps           ControllerDeps
	guildID        snowflake.ID
	voiceChannelID snowflake.ID

	mu                    sync.Mutex
	notificationChannelID snowflake.ID
	queue                 *domain.Queue
	waiting               bool
	loop                  bool
	repeat                bool
	destroyed             bool
	advancing             bool
	starting              bool
	rerun                 bool
	idleTimer             ports.Timer
}

// NewPlaybackController joins voiceChannelID and registers the controller
// for the guild. If the connection cannot be validated the controller tears
// itself down, is never registered, and an error is returned.
func NewPlaybackController(
	ctx context.Context,
	deps ControllerDeps,
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
) (*PlaybackController, error) {
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = DefaultIdleTimeout
	}

	c := &PlaybackController{
		deps:                  deps,
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		queue:                 domain.NewQueue(),
		waiting:               true,
	}

	if err := deps.Voice.JoinChannel(ctx, guildID, voiceChannelID); err != nil {
		c.Destroy(ctx)
		return nil, domain.WrapError(domain.KindConnectionFailure, msgJoinFailed, err)
	}

	if !c.Validate() {
		c.Destroy(ctx)
		return nil, domain.NewError(domain.KindConnectionFailure, msgJoinFailed)
	}

	if err := deps.Registry.Register(c); err != nil {
		// The registered controller owns the connection; only retire this one.
		c.mu.Lock()
		c.destroyed = true
		c.mu.Unlock()
		return nil, fmt.Errorf("failed to register playback controller: %w", err)
	}

	slog.Info("created playback controller",
		"guild", guildID,
		"voice_channel", voiceChannelID,
	)

	return c, nil
}

// GuildID returns the guild the controller serves.
func (c *PlaybackController) GuildID() snowflake.ID {
	return c.guildID
}

// VoiceChannelID returns the voice channel the controller is bound to.
func (c *PlaybackController) VoiceChannelID() snowflake.ID {
	return c.voiceChannelID
}

// NotificationChannelID returns the channel status messages are sent to.
func (c *PlaybackController) NotificationChannelID() snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notificationChannelID
}

// SetNotificationChannel retargets status messages to channelID.
func (c *PlaybackController) SetNotificationChannel(channelID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notificationChannelID = channelID
}

// Validate reports whether the controller still has an audio player and a
// live voice connection.
func (c *PlaybackController) Validate() bool {
	c.mu.Lock()
	destroyed := c.destroyed
	c.mu.Unlock()

	return !destroyed && c.deps.Player != nil && c.deps.Voice.IsConnected(c.guildID)
}

// IsWaiting reports whether the player is idle.
func (c *PlaybackController) IsWaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// IsDestroyed reports whether the controller has been torn down.
func (c *PlaybackController) IsDestroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Entries returns a snapshot of the queue.
func (c *PlaybackController) Entries() []*domain.QueueEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Entries()
}

// Enqueue classifies query, looks it up and appends the result to the queue.
// A playlist becomes one placeholder per item; items are looked up only when
// they reach the head. If the player was idle, playback starts immediately.
func (c *PlaybackController) Enqueue(
	ctx context.Context,
	query string,
	userID snowflake.ID,
) domain.Result {
	if c.IsDestroyed() {
		return domain.FailureFrom(errNotPlaying)
	}

	q := c.deps.Provider.Classify(query)
	if q.Kind == domain.QueryUnsupported {
		return domain.Failure(domain.KindUnsupportedQuery, msgUnsupported)
	}

	if q.Kind.NeedsCatalog() && c.deps.Provider.TokenExpired() {
		if err := c.deps.Provider.RefreshToken(ctx); err != nil {
			slog.Error("failed to refresh provider token", "guild", c.guildID, "error", err)
			return domain.Failure(domain.KindProviderUnavailable, msgProviderDown)
		}
	}

	added, err := c.lookup(ctx, q, userID)
	if err != nil {
		slog.Warn("failed to look up query",
			"guild", c.guildID,
			"kind", q.Kind.String(),
			"error", err,
		)
		return domain.FailureFrom(err)
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return domain.FailureFrom(errNotPlaying)
	}
	c.queue.Append(added...)
	c.cancelIdleTimerLocked()
	startPlayback := c.waiting
	c.mu.Unlock()

	first := added[0].Title()
	if len(added) == 1 {
		if startPlayback {
			if result, ok := c.advance(ctx, true); ok {
				return result
			}
		}
		return domain.Success(fmt.Sprintf("Added `%s` to the queue!", first))
	}

	message := fmt.Sprintf("Added `%s` and %d other song(s) to the queue", first, len(added)-1)
	if startPlayback {
		if result, ok := c.advance(ctx, true); ok {
			return domain.Success(message + "\n" + result.Message())
		}
	}
	return domain.Success(message)
}

func (c *PlaybackController) lookup(
	ctx context.Context,
	q domain.Query,
	userID snowflake.ID,
) ([]*domain.QueueEntry, error) {
	if q.Kind.IsPlaylist() {
		items, err := c.deps.Provider.LookupPlaylistTracks(ctx, q)
		if err != nil {
			return nil, providerError(err)
		}
		if len(items) == 0 {
			return nil, domain.NewError(domain.KindNotFound, msgNotFound)
		}
		return lo.Map(items, func(item domain.PlaylistItem, _ int) *domain.QueueEntry {
			return domain.NewPlaceholderEntry(item.SearchTerm(), userID)
		}), nil
	}

	tracks, err := c.deps.Provider.LookupTrack(ctx, q.Raw, 1)
	if err != nil {
		return nil, providerError(err)
	}
	if len(tracks) == 0 {
		return nil, domain.NewError(domain.KindNotFound, msgNotFound)
	}
	return []*domain.QueueEntry{domain.NewQueueEntry(tracks[0], userID)}, nil
}

func providerError(err error) error {
	if _, ok := domain.KindOf(err); ok {
		return err
	}
	return domain.WrapError(domain.KindProviderUnavailable, msgProviderDown, err)
}

// PlayNext starts the head of the queue. An entry that resolves but fails to
// play is dropped and the next one is tried; a resolution failure is
// returned unchanged and leaves the entry in place. On an empty queue the
// idle timer is armed.
func (c *PlaybackController) PlayNext(ctx context.Context) domain.Result {
	result, ok := c.advance(ctx, false)
	if !ok {
		c.mu.Lock()
		defer c.mu.Unlock()
		if head := c.queue.Head(); head != nil {
			return domain.Success(fmt.Sprintf("Now Playing: `%s`", head.Title()))
		}
		return domain.Success(msgQueueFinished)
	}
	return result
}

// advance tries to start the head of the queue, dropping entries that fail
// to play and, with skipUnresolvable, entries that cannot be resolved. It
// returns false when playback is already running or another advance is in
// flight; that advance picks up any queue change made meanwhile.
func (c *PlaybackController) advance(ctx context.Context, skipUnresolvable bool) (domain.Result, bool) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return domain.FailureFrom(errNotPlaying), true
	}
	if c.advancing {
		c.rerun = true
		c.mu.Unlock()
		return domain.Result{}, false
	}
	if !c.waiting {
		c.mu.Unlock()
		return domain.Result{}, false
	}
	c.advancing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.advancing = false
		c.rerun = false
		c.mu.Unlock()
	}()

	var notices []string
	for range maxPlaybackAttempts {
		c.mu.Lock()
		if c.destroyed {
			c.mu.Unlock()
			return domain.FailureFrom(errNotPlaying).WithPrefix(notices...), true
		}
		head := c.queue.Head()
		if head == nil {
			c.armIdleTimerLocked()
			c.mu.Unlock()
			return domain.Success(msgQueueFinished).WithPrefix(notices...), true
		}
		c.mu.Unlock()

		err := head.Prepare(ctx, c.deps.Provider)

		c.mu.Lock()
		if c.destroyed {
			c.mu.Unlock()
			return domain.FailureFrom(errNotPlaying).WithPrefix(notices...), true
		}
		if c.queue.Head() != head {
			c.mu.Unlock()
			continue
		}

		if err == nil {
			c.starting = true
			c.mu.Unlock()
			err = c.play(ctx, head)
			c.mu.Lock()
			c.starting = false
			if c.destroyed {
				c.mu.Unlock()
				return domain.FailureFrom(errNotPlaying).WithPrefix(notices...), true
			}
		}

		if err != nil {
			kind, _ := domain.KindOf(err)
			if kind != domain.KindPlaybackFailure && !skipUnresolvable {
				c.mu.Unlock()
				return domain.FailureFrom(err).WithPrefix(notices...), true
			}
			c.queue.Remove(head.ID())
			c.mu.Unlock()

			slog.Warn("dropped queue entry",
				"guild", c.guildID,
				"title", head.Title(),
				"error", err,
			)
			notices = append(notices, domain.FailureFrom(err).Message())
			continue
		}

		if c.rerun {
			// The player went idle again while Play was in flight.
			c.rerun = false
			c.mu.Unlock()
			continue
		}
		c.waiting = false
		c.cancelIdleTimerLocked()
		c.mu.Unlock()

		return domain.Success(fmt.Sprintf("Now Playing: `%s`", head.Title())).WithPrefix(notices...), true
	}

	return domain.Failure(domain.KindPlaybackFailure, msgTooManyErrors).WithPrefix(notices...), true
}

func (c *PlaybackController) play(ctx context.Context, entry *domain.QueueEntry) error {
	if err := c.deps.Player.Play(ctx, c.guildID, entry.Resource()); err != nil {
		return domain.WrapError(
			domain.KindPlaybackFailure,
			fmt.Sprintf("There was an error playing `%s`!", entry.Title()),
			err,
		)
	}
	return nil
}

// HandlePlayerStateChanged applies an audio player transition. Idle pops the
// head (unless repeating), re-appends it when looping, and advances;
// Playing marks the controller busy.
func (c *PlaybackController) HandlePlayerStateChanged(ctx context.Context, status domain.PlayerStatus) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}

	switch status {
	case domain.PlayerPlaying:
		c.waiting = false
		c.cancelIdleTimerLocked()
		c.mu.Unlock()
		return

	case domain.PlayerIdle:
		if c.waiting && !c.starting {
			c.mu.Unlock()
			slog.Debug("ignoring idle event for idle player", "guild", c.guildID)
			return
		}
		c.waiting = true
		c.queue.Advance(c.loop, c.repeat)
		c.mu.Unlock()

		result, ok := c.advance(ctx, true)
		if ok {
			c.notify(result.Message())
		}

	default:
		c.mu.Unlock()
	}
}

// VoteSkip registers userID's vote to skip the head. The head's submitter
// skips immediately; everyone else needs half of the listeners to agree.
func (c *PlaybackController) VoteSkip(ctx context.Context, userID snowflake.ID) domain.Result {
	c.mu.Lock()
	head := c.queue.Head()
	if c.destroyed || c.waiting || head == nil {
		c.mu.Unlock()
		return domain.FailureFrom(errNotPlaying)
	}
	if head.RequesterID() == userID {
		c.mu.Unlock()
		return c.skip(ctx, head)
	}
	head.AddVote(userID)
	c.mu.Unlock()

	listeners, err := c.deps.VoiceState.ChannelListeners(c.guildID, c.voiceChannelID)
	if err != nil {
		slog.Error("failed to list voice channel members", "guild", c.guildID, "error", err)
		return domain.Failure(domain.KindConnectionFailure, "I couldn't check who is listening!")
	}

	c.mu.Lock()
	if c.queue.Head() != head || c.waiting {
		c.mu.Unlock()
		return domain.Success(fmt.Sprintf("`%s` was already skipped!", head.Title()))
	}
	tally := domain.TallySkipVotes(head, listeners)
	c.mu.Unlock()

	if tally.Passed() {
		return c.skip(ctx, head)
	}
	return domain.Success(fmt.Sprintf("Voted to skip `%s`: %d/%d", head.Title(), tally.Valid, tally.Required))
}

func (c *PlaybackController) skip(ctx context.Context, head *domain.QueueEntry) domain.Result {
	if err := c.deps.Player.Stop(ctx, c.guildID); err != nil {
		slog.Error("failed to stop playback", "guild", c.guildID, "error", err)
		return domain.Failure(domain.KindPlaybackFailure, "Failed to skip the current song!")
	}
	return domain.Success(fmt.Sprintf("Skipped `%s`!", head.Title()))
}

// ToggleLoop flips queue looping.
func (c *PlaybackController) ToggleLoop() domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = !c.loop
	return domain.Success(fmt.Sprintf("Loop mode was %s!", enabledString(c.loop)))
}

// ToggleRepeat flips repetition of the current entry.
func (c *PlaybackController) ToggleRepeat() domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeat = !c.repeat
	return domain.Success(fmt.Sprintf("Repeat mode was %s!", enabledString(c.repeat)))
}

// Modes returns the loop and repeat flags.
func (c *PlaybackController) Modes() (loop, repeat bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loop, c.repeat
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// QueuePage renders one page of the queue.
func (c *PlaybackController) QueuePage(page int) (domain.QueuePage, error) {
	c.mu.Lock()
	titles := c.queue.Titles()
	c.mu.Unlock()

	return domain.PaginateQueue(titles, page)
}

// Shuffle permutes every entry but the head.
func (c *PlaybackController) Shuffle() domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed || c.queue.IsEmpty() {
		return domain.Failure(domain.KindNothingPlaying, msgQueueEmpty)
	}
	c.queue.Shuffle()
	return domain.Success("The queue has been shuffled!")
}

// Destroy stops playback, leaves the voice channel and unregisters the
// controller. Calling it more than once has no further effect.
func (c *PlaybackController) Destroy(ctx context.Context) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.waiting = true
	c.cancelIdleTimerLocked()
	c.queue.Clear()
	c.mu.Unlock()

	c.deps.Registry.Remove(c.guildID, c)

	if c.deps.Player != nil {
		if err := c.deps.Player.Stop(ctx, c.guildID); err != nil {
			slog.Warn("failed to stop player", "guild", c.guildID, "error", err)
		}
	}
	if err := c.deps.Voice.LeaveChannel(ctx, c.guildID); err != nil {
		slog.Warn("failed to leave voice channel", "guild", c.guildID, "error", err)
	}

	slog.Info("destroyed playback controller", "guild", c.guildID)
}

func (c *PlaybackController) armIdleTimerLocked() {
	if c.idleTimer != nil {
		return
	}
	c.idleTimer = c.deps.Scheduler.AfterFunc(c.deps.IdleTimeout, c.onIdleTimeout)
}

func (c *PlaybackController) cancelIdleTimerLocked() {
	if c.idleTimer == nil {
		return
	}
	c.idleTimer.Stop()
	c.idleTimer = nil
}

func (c *PlaybackController) onIdleTimeout() {
	c.mu.Lock()
	if c.destroyed || !c.waiting || !c.queue.IsEmpty() {
		c.mu.Unlock()
		return
	}
	c.idleTimer = nil
	c.mu.Unlock()

	slog.Info("leaving idle voice channel", "guild", c.guildID)
	c.notify(msgIdleLeft)
	c.Destroy(context.Background())
}

func (c *PlaybackController) notify(message string) {
	if message == "" {
		return
	}
	channelID := c.NotificationChannelID()
	if err := c.deps.Notifier.SendMessage(channelID, message); err != nil {
		slog.Warn("failed to send notification",
			"guild", c.guildID,
			"channel", channelID,
			"error", err,
		)
	}
}
