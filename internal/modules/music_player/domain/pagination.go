package domain

import "fmt"

// QueuePageSize is the number of entries shown per queue page.
const QueuePageSize = 10

// QueuePage is one page of the rendered queue.
type QueuePage struct {
	Lines      []string
	Page       int
	TotalPages int
}

// PaginateQueue renders page (1-based) of titles. The first line of page 1
// is the head labeled "Playing"; every other line is numbered by its
// 1-based position in the queue, so the entry after the head is "2.". Pages outside 1..TotalPages, including any page of
// an empty queue, return ErrPageOutOfRange.
func PaginateQueue(titles []string, page int) (QueuePage, error) {
	totalPages := (len(titles) + QueuePageSize - 1) / QueuePageSize
	if page < 1 || page > totalPages {
		return QueuePage{}, ErrPageOutOfRange
	}

	start := (page - 1) * QueuePageSize
	end := min(start+QueuePageSize, len(titles))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == 0 {
			lines = append(lines, fmt.Sprintf("Playing: %s", titles[i]))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, titles[i]))
	}

	return QueuePage{
		Lines:      lines,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
