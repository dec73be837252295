package main

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// History keeps successful generations for the lifetime of the process.
// It is safe for concurrent use by HTTP handlers.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Add records a generation and returns the stored entry
func (h *History) Add(prompt, result, model string, createdAt time.Time) HistoryEntry {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Result:    result,
		Model:     model,
		CreatedAt: createdAt,
	}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()

	return entry
}

// Entries returns a copy of the history, newest first
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	out := slices.Clone(h.entries)
	h.mu.Unlock()

	slices.Reverse(out)
	if out == nil {
		out = []HistoryEntry{}
	}
	return out
}

// Len returns the number of recorded generations
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear drops all entries
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}
