package domain

import "github.com/samber/lo"

// Queue is an ordered list of entries. The head is the entry that is
// playing or about to play.
type Queue struct {
	entries []*QueueEntry
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{
		entries: make([]*QueueEntry, 0),
	}
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// IsEmpty returns true if the queue has no entries.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Head returns the first entry, or nil if the queue is empty.
func (q *Queue) Head() *QueueEntry {
	if q.IsEmpty() {
		return nil
	}
	return q.entries[0]
}

// Append adds entries to the tail in the given order.
func (q *Queue) Append(entries ...*QueueEntry) {
	q.entries = append(q.entries, entries...)
}

// PopHead removes and returns the head, or nil if the queue is empty.
func (q *Queue) PopHead() *QueueEntry {
	if q.IsEmpty() {
		return nil
	}
	head := q.entries[0]
	q.entries[0] = nil
	q.entries = q.entries[1:]
	return head
}

// Remove deletes the entry with the given ID and reports whether it was found.
func (q *Queue) Remove(id QueueEntryID) bool {
	_, index, found := lo.FindIndexOf(q.entries, func(e *QueueEntry) bool {
		return e.ID() == id
	})
	if !found {
		return false
	}
	q.entries = append(q.entries[:index], q.entries[index+1:]...)
	return true
}

// Advance moves past the head after it finished playing. With repeat the head
// stays in place; otherwise it is popped, and re-appended at the tail when
// loop is set. It returns the entry that was popped, or nil.
func (q *Queue) Advance(loop, repeat bool) *QueueEntry {
	if repeat {
		if head := q.Head(); head != nil {
			head.ClearVotes()
		}
		return nil
	}

	popped := q.PopHead()
	if popped == nil {
		return nil
	}
	popped.ClearVotes()
	if loop {
		q.Append(popped)
	}
	return popped
}

// Shuffle randomly permutes every entry except the head.
func (q *Queue) Shuffle() {
	if q.Len() < 3 {
		return
	}
	lo.Shuffle(q.entries[1:])
}

// Clear removes all entries and returns how many were removed.
func (q *Queue) Clear() int {
	n := q.Len()
	clear(q.entries)
	q.entries = q.entries[:0]
	return n
}

// Entries returns a copy of the entries in queue order.
func (q *Queue) Entries() []*QueueEntry {
	result := make([]*QueueEntry, q.Len())
	copy(result, q.entries)
	return result
}

// Titles returns the display titles in queue order.
func (q *Queue) Titles() []string {
	return lo.Map(q.entries, func(e *QueueEntry, _ int) string {
		return e.Title()
	})
}
