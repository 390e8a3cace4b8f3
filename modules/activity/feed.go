package activity

import (
	"sync"
	"time"
)

// maxEntriesPerUser bounds the feed kept for each user.
const maxEntriesPerUser = 100

// Entry is one recorded task lifecycle event.
type Entry struct {
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed keeps the most recent entries per user in memory.
type Feed struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	limit   int
}

func NewFeed(limit int) *Feed {
	return &Feed{entries: make(map[string][]Entry), limit: limit}
}

// Add appends e to its user's feed, dropping the oldest entry when full.
func (f *Feed) Add(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[e.UserID], e)
	if len(list) > f.limit {
		list = list[len(list)-f.limit:]
	}
	f.entries[e.UserID] = list
}

// List returns the user's entries, newest first.
func (f *Feed) List(userID string) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[userID]
	out := make([]Entry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}
