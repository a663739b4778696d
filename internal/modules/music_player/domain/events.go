package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerStatus is the state of a guild's audio player.
type PlayerStatus int

const (
	// PlayerIdle means nothing is streaming.
	PlayerIdle PlayerStatus = iota
	// PlayerPlaying means a track is streaming.
	PlayerPlaying
)

// String returns the string representation of the status.
func (s PlayerStatus) String() string {
	if s == PlayerPlaying {
		return "playing"
	}
	return "idle"
}

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped, e.g. by a skip.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the track was cleaned up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// LeavesPlayerIdle returns true if the player has nothing to stream after
// a track ended for this reason.
func (r TrackEndReason) LeavesPlayerIdle() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed || r == TrackEndStopped
}

// PlayerStateChangedEvent is published when a guild's audio player becomes
// idle or starts playing.
type PlayerStateChangedEvent struct {
	GuildID snowflake.ID
	Status  PlayerStatus
}

// ConnectionLostReason tells why a voice connection ended.
type ConnectionLostReason string

const (
	// ConnectionLostError means the voice backend reported an error.
	ConnectionLostError ConnectionLostReason = "error"
	// ConnectionLostDisconnected means the bot was disconnected from voice.
	ConnectionLostDisconnected ConnectionLostReason = "disconnected"
)

// ConnectionLostEvent is published when a guild's voice connection breaks.
type ConnectionLostEvent struct {
	GuildID snowflake.ID
	Reason  ConnectionLostReason
	Detail  string
}
