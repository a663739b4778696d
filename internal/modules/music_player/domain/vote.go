package domain

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// RequiredSkipVotes returns how many votes skip a track when listeners
// non-bot members are in the voice channel: half of them, rounding .5 up.
func RequiredSkipVotes(listeners int) int {
	if listeners <= 0 {
		return 0
	}
	return (listeners + 1) / 2
}

// SkipTally is the outcome of counting votes on an entry.
type SkipTally struct {
	Valid    int
	Required int
}

// Passed reports whether enough valid votes were cast.
func (t SkipTally) Passed() bool {
	return t.Valid >= t.Required
}

// TallySkipVotes drops votes from users that are no longer listening and
// counts the rest against the threshold for the current listeners.
func TallySkipVotes(entry *QueueEntry, listeners []snowflake.ID) SkipTally {
	present := lo.SliceToMap(listeners, func(id snowflake.ID) (snowflake.ID, struct{}) {
		return id, struct{}{}
	})

	for _, voter := range entry.Votes() {
		if _, ok := present[voter]; !ok {
			entry.RemoveVote(voter)
		}
	}

	return SkipTally{
		Valid:    len(entry.Votes()),
		Required: RequiredSkipVotes(len(listeners)),
	}
}
