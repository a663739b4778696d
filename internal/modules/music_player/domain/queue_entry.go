package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// QueueEntryID uniquely identifies a queue entry.
type QueueEntryID string

// ResolutionState tells whether an entry has been matched to a media locator.
type ResolutionState int

const (
	// Unresolved entries only carry a title to search for.
	Unresolved ResolutionState = iota
	// Resolved entries carry the provider's canonical title, duration and locator.
	Resolved
)

// String returns the string representation of the state.
func (s ResolutionState) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// QueueEntry is one slot of a guild's queue. Placeholders are looked up
// lazily right before they are played. It is safe for concurrent use.
type QueueEntry struct {
	mu sync.RWMutex

	id          QueueEntryID
	title       string
	duration    time.Duration
	locator     string
	requesterID snowflake.ID
	state       ResolutionState
	votes       map[snowflake.ID]struct{}
	resource    *PlayableResource
}

// NewQueueEntry creates a resolved entry from provider track info.
func NewQueueEntry(info TrackInfo, requesterID snowflake.ID) *QueueEntry {
	e := newEntry(info.Title, requesterID)
	e.applyInfo(info)
	return e
}

// NewPlaceholderEntry creates an unresolved entry that will be looked up by title.
func NewPlaceholderEntry(title string, requesterID snowflake.ID) *QueueEntry {
	return newEntry(title, requesterID)
}

func newEntry(title string, requesterID snowflake.ID) *QueueEntry {
	return &QueueEntry{
		id:          QueueEntryID(uuid.NewString()),
		title:       title,
		requesterID: requesterID,
		state:       Unresolved,
		votes:       make(map[snowflake.ID]struct{}),
	}
}

func (e *QueueEntry) applyInfo(info TrackInfo) {
	e.title = info.Title
	e.duration = info.Duration.Truncate(time.Second)
	e.locator = info.Locator
	e.state = Resolved
}

// ID returns the entry's identifier.
func (e *QueueEntry) ID() QueueEntryID { return e.id }

// RequesterID returns the user who queued the entry.
func (e *QueueEntry) RequesterID() snowflake.ID { return e.requesterID }

// Title returns the display title.
func (e *QueueEntry) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.title
}

// Duration returns the track length, zero when unknown.
func (e *QueueEntry) Duration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.duration
}

// Locator returns the media locator, empty until resolved.
func (e *QueueEntry) Locator() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.locator
}

// State returns the resolution state.
func (e *QueueEntry) State() ResolutionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// IsPlaceholder reports whether the entry has not been resolved yet.
func (e *QueueEntry) IsPlaceholder() bool {
	return e.State() == Unresolved
}

// Resource returns the prepared playable resource, or nil.
func (e *QueueEntry) Resource() *PlayableResource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resource
}

// Resolve looks the entry up by title unless it is already resolved.
func (e *QueueEntry) Resolve(ctx context.Context, resolver TrackResolver) error {
	if !e.IsPlaceholder() {
		return nil
	}

	title := e.Title()
	tracks, err := resolver.LookupTrack(ctx, title, 1)
	if err != nil {
		if _, ok := KindOf(err); ok {
			return err
		}
		return WrapError(
			KindProviderUnavailable,
			fmt.Sprintf("I couldn't look up `%s` right now!", title),
			err,
		)
	}
	if len(tracks) == 0 {
		return NewError(KindNotFound, fmt.Sprintf("I couldn't find `%s` on youtube!", title))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyInfo(tracks[0])
	return nil
}

// Prepare resolves the entry and opens its media stream. On success the
// resource is cached on the entry; on failure any cached resource is dropped.
func (e *QueueEntry) Prepare(ctx context.Context, resolver TrackResolver) error {
	e.setResource(nil)

	if err := e.Resolve(ctx, resolver); err != nil {
		return err
	}

	resource, err := resolver.OpenStream(ctx, e.Locator())
	if err != nil {
		return WrapError(
			KindPlaybackFailure,
			fmt.Sprintf("There was an error playing `%s`!", e.Title()),
			err,
		)
	}

	e.setResource(resource)
	return nil
}

func (e *QueueEntry) setResource(resource *PlayableResource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resource = resource
}

// AddVote records a skip vote.
func (e *QueueEntry) AddVote(userID snowflake.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.votes[userID] = struct{}{}
}

// RemoveVote withdraws a skip vote.
func (e *QueueEntry) RemoveVote(userID snowflake.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.votes, userID)
}

// HasVote reports whether userID voted to skip this entry.
func (e *QueueEntry) HasVote(userID snowflake.ID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.votes[userID]
	return ok
}

// Votes returns the users who voted to skip this entry.
func (e *QueueEntry) Votes() []snowflake.ID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return lo.Keys(e.votes)
}

// ClearVotes forgets all skip votes, e.g. when the entry is replayed.
func (e *QueueEntry) ClearVotes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.votes)
}
