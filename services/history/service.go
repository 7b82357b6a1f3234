// Package history keeps the bounded, ordered, deduplicated list of past
// search queries, persisted across sessions through the key-value store.
package history

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/yeppakhon/WWDC-search/internal/kvstore"
)

// Capacity bounds the history list; the oldest entry falls off the end.
const Capacity = 10

// storageKey is the fixed key the serialized list lives under.
const storageKey = "search_history"

// ConfirmFunc asks the user to confirm a destructive action. Clear refuses to
// act unless it returns true.
type ConfirmFunc func(prompt string) bool

// Listener is notified with the full ordered list after every mutation.
type Listener func(entries []string)

// Service manages the search history list. Most-recent-first, unique entries,
// at most Capacity long.
type Service struct {
	mu        sync.RWMutex
	store     kvstore.Store
	entries   []string
	listeners []Listener
}

// NewService loads the persisted history. Corrupt or missing stored data is
// treated as an empty history and never surfaces to the caller.
func NewService(store kvstore.Store) *Service {
	svc := &Service{store: store}

	data, err := store.Get(storageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("[history] ignoring unreadable stored history: %v", err)
		}
		return svc
	}
	if err := json.Unmarshal(data, &svc.entries); err != nil {
		log.Printf("[history] ignoring corrupt stored history: %v", err)
		svc.entries = nil
	}
	return svc
}

// Subscribe registers a listener invoked after every mutation.
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Add records a query at the front of the list. Re-adding an existing entry
// moves it to the front rather than duplicating it; an empty query after
// trimming is a no-op.
func (s *Service) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	filtered := make([]string, 0, len(s.entries)+1)
	filtered = append(filtered, query)
	for _, entry := range s.entries {
		if entry != query {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) > Capacity {
		filtered = filtered[:Capacity]
	}
	s.entries = filtered
	s.persistLocked()
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// Remove deletes the entry if present. Idempotent: removing an absent entry
// is not an error and does not persist or notify.
func (s *Service) Remove(query string) {
	s.mu.Lock()
	filtered := s.entries[:0:0]
	removed := false
	for _, entry := range s.entries {
		if entry == query {
			removed = true
			continue
		}
		filtered = append(filtered, entry)
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.entries = filtered
	s.persistLocked()
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
}

// Clear empties the history after the confirmation callback approves it.
// A nil or declining confirm leaves the state unchanged.
func (s *Service) Clear(confirm ConfirmFunc) bool {
	if confirm == nil || !confirm("clear all search history?") {
		return false
	}

	s.mu.Lock()
	s.entries = nil
	s.persistLocked()
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// List returns the ordered entries, most recent first.
func (s *Service) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// persistLocked writes the whole serialized list back synchronously. A failed
// write is logged and otherwise ignored; the in-memory list stays current.
func (s *Service) persistLocked() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		log.Printf("[history] encode history: %v", err)
		return
	}
	if err := s.store.Set(storageKey, data); err != nil {
		log.Printf("[history] persist history: %v", err)
	}
}

func (s *Service) snapshotLocked() ([]string, []Listener) {
	snapshot := make([]string, len(s.entries))
	copy(snapshot, s.entries)
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	return snapshot, listeners
}

func notify(listeners []Listener, entries []string) {
	for _, l := range listeners {
		l(entries)
	}
}
