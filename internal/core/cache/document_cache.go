package cache

import (
	"sync"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// DocumentCache holds the latest known state of every document the session
// has observed and is the single read model for all consumers. It is created
// at session start and injected; there is no package-level instance.
//
// Writes are versioned by the server-side UpdatedAt timestamp so a slow poll
// tick can never clobber a newer snapshot written by a user action.
type DocumentCache struct {
	mu      sync.Mutex
	docs    map[string]domain.Document
	order   []string
	nextSub int
	subs    map[int]func()
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		docs: make(map[string]domain.Document),
		subs: make(map[int]func()),
	}
}

func (c *DocumentCache) Get(id string) (domain.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	return doc, ok
}

// ListAll returns all cached documents in server-provided order. Documents
// upserted individually since the last wholesale refresh are appended after
// the listed ones.
func (c *DocumentCache) ListAll() []domain.Document {
	c.mu.Lock()
	out := make([]domain.Document, 0, len(c.order))
	for _, id := range c.order {
		if doc, ok := c.docs[id]; ok {
			out = append(out, doc)
		}
	}
	c.mu.Unlock()
	return out
}

// Upsert replaces-or-inserts the full record for doc.ID. Snapshots strictly
// older than the cached one (by UpdatedAt) are rejected and the cache is left
// unchanged. Returns whether the write was applied.
func (c *DocumentCache) Upsert(doc domain.Document) bool {
	c.mu.Lock()
	if prev, ok := c.docs[doc.ID]; ok {
		if doc.UpdatedAt.Before(prev.UpdatedAt) {
			c.mu.Unlock()
			return false
		}
	} else {
		c.order = append(c.order, doc.ID)
	}
	c.docs[doc.ID] = doc
	c.mu.Unlock()

	c.notify()
	return true
}

// ReplaceAll installs a wholesale listing fetch: entries and order both come
// from the server, bypassing the per-entry staleness check.
func (c *DocumentCache) ReplaceAll(docs []domain.Document) {
	c.mu.Lock()
	c.docs = make(map[string]domain.Document, len(docs))
	c.order = make([]string, 0, len(docs))
	for _, doc := range docs {
		c.docs[doc.ID] = doc
		c.order = append(c.order, doc.ID)
	}
	c.mu.Unlock()

	c.notify()
}

func (c *DocumentCache) Remove(id string) {
	c.mu.Lock()
	if _, ok := c.docs[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.notify()
}

// Reset empties the cache, used on sign-out.
func (c *DocumentCache) Reset() {
	c.mu.Lock()
	c.docs = make(map[string]domain.Document)
	c.order = nil
	c.mu.Unlock()

	c.notify()
}

// Subscribe registers fn to run after every mutation. The returned function
// unsubscribes.
func (c *DocumentCache) Subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *DocumentCache) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
