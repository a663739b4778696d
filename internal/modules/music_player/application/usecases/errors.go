package usecases

import "github.com/sglre6355/tunebot/internal/modules/music_player/domain"

// Errors reported by the command surface. Each carries the message shown to
// the user.
var (
	// ErrNotPlaying is returned when the guild has no playback controller.
	ErrNotPlaying = domain.NewError(domain.KindNothingPlaying, "I'm not playing music!")

	// ErrNotConnected is returned by Leave when the bot is not in a voice channel.
	ErrNotConnected = domain.NewError(domain.KindNothingPlaying, "I'm not in a voice channel!")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = domain.NewError(domain.KindConnectionFailure, "I can't see you in a voice channel!")

	// ErrCannotJoin is returned when the bot lacks permission to join the user's channel.
	ErrCannotJoin = domain.NewError(domain.KindConnectionFailure, "I don't have permissions to join your channel!")

	// ErrJoinFailed is returned when the voice connection could not be established.
	ErrJoinFailed = domain.NewError(domain.KindConnectionFailure, "Failed to join your channel!")
)
