package cache

import (
	"sync"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

type interactionEntry struct {
	items []domain.Interaction
	stale bool
}

// InteractionStore is the per-document ordered Q&A history cache.
//
// A successful ask invalidates the entry (the server creates the interaction,
// so the updated list must be re-derived rather than guessed), while a
// successful clear installs an explicit empty list immediately: the post-state
// is unambiguous and needs no round trip.
type InteractionStore struct {
	mu      sync.Mutex
	entries map[string]interactionEntry
}

func NewInteractionStore() *InteractionStore {
	return &InteractionStore{entries: make(map[string]interactionEntry)}
}

// Get returns the cached history and whether it is fresh. A missing or
// invalidated entry reports fresh=false, telling the caller to refetch.
func (s *InteractionStore) Get(documentID string) ([]domain.Interaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[documentID]
	if !ok {
		return nil, false
	}
	items := make([]domain.Interaction, len(entry.items))
	copy(items, entry.items)
	return items, !entry.stale
}

// Put installs a freshly fetched history, replacing any stale entry.
func (s *InteractionStore) Put(documentID string, items []domain.Interaction) {
	stored := make([]domain.Interaction, len(items))
	copy(stored, items)

	s.mu.Lock()
	s.entries[documentID] = interactionEntry{items: stored}
	s.mu.Unlock()
}

// Invalidate marks the entry stale so the next read refetches from the server.
func (s *InteractionStore) Invalidate(documentID string) {
	s.mu.Lock()
	entry := s.entries[documentID]
	entry.stale = true
	s.entries[documentID] = entry
	s.mu.Unlock()
}

// Clear installs an explicit empty history. Idempotent.
func (s *InteractionStore) Clear(documentID string) {
	s.mu.Lock()
	s.entries[documentID] = interactionEntry{items: []domain.Interaction{}}
	s.mu.Unlock()
}

// Reset drops every entry, used on sign-out.
func (s *InteractionStore) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]interactionEntry)
	s.mu.Unlock()
}
