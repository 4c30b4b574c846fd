package cache

import (
	"testing"
	"time"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

func doc(id string, status domain.OcrStatus, updatedAt time.Time) domain.Document {
	return domain.Document{
		ID:        id,
		UserID:    "user-1",
		FileName:  id + ".pdf",
		OcrStatus: status,
		UpdatedAt: updatedAt,
	}
}

func TestDocumentCacheUpsertRoundtrip(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	if _, ok := c.Get("doc-1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if applied := c.Upsert(doc("doc-1", domain.StatusPending, now)); !applied {
		t.Fatal("expected insert to be applied")
	}
	got, ok := c.Get("doc-1")
	if !ok {
		t.Fatal("expected hit after upsert")
	}
	if got.OcrStatus != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING", got.OcrStatus)
	}

	updated := doc("doc-1", domain.StatusCompleted, now.Add(time.Second))
	updated.Summary = "Resumo do contrato."
	if applied := c.Upsert(updated); !applied {
		t.Fatal("expected newer snapshot to be applied")
	}
	got, _ = c.Get("doc-1")
	if got.OcrStatus != domain.StatusCompleted || got.Summary != "Resumo do contrato." {
		t.Fatalf("got %+v, want completed snapshot with summary", got)
	}
}

func TestDocumentCacheRejectsStaleSnapshot(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	c.Upsert(doc("doc-1", domain.StatusCompleted, now))

	stale := doc("doc-1", domain.StatusProcessing, now.Add(-time.Minute))
	if applied := c.Upsert(stale); applied {
		t.Fatal("expected stale snapshot to be rejected")
	}
	got, _ := c.Get("doc-1")
	if got.OcrStatus != domain.StatusCompleted {
		t.Fatalf("status = %s, stale write should not clobber", got.OcrStatus)
	}

	// Same timestamp is not strictly older and must win.
	sameTime := doc("doc-1", domain.StatusFailed, now)
	if applied := c.Upsert(sameTime); !applied {
		t.Fatal("expected equal-timestamp snapshot to be applied")
	}
}

func TestDocumentCacheReplaceAllKeepsServerOrder(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	c.Upsert(doc("old", domain.StatusCompleted, now))

	c.ReplaceAll([]domain.Document{
		doc("b", domain.StatusPending, now),
		doc("a", domain.StatusCompleted, now),
		doc("c", domain.StatusProcessing, now),
	})

	if _, ok := c.Get("old"); ok {
		t.Fatal("ReplaceAll should drop entries missing from the listing")
	}
	all := c.ListAll()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, want := range []string{"b", "a", "c"} {
		if all[i].ID != want {
			t.Fatalf("order[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestDocumentCacheReplaceAllBypassesStalenessCheck(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	c.Upsert(doc("doc-1", domain.StatusCompleted, now))
	c.ReplaceAll([]domain.Document{doc("doc-1", domain.StatusProcessing, now.Add(-time.Hour))})

	got, _ := c.Get("doc-1")
	if got.OcrStatus != domain.StatusProcessing {
		t.Fatalf("status = %s, wholesale refresh must win regardless of UpdatedAt", got.OcrStatus)
	}
}

func TestDocumentCacheRemove(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	c.ReplaceAll([]domain.Document{
		doc("a", domain.StatusCompleted, now),
		doc("b", domain.StatusCompleted, now),
	})
	c.Remove("a")
	c.Remove("missing")

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected removed entry to be gone")
	}
	all := c.ListAll()
	if len(all) != 1 || all[0].ID != "b" {
		t.Fatalf("ListAll = %v, want just b", all)
	}
}

func TestDocumentCacheSubscribe(t *testing.T) {
	c := NewDocumentCache()
	now := time.Now()

	var notified int
	unsubscribe := c.Subscribe(func() { notified++ })

	c.Upsert(doc("a", domain.StatusPending, now))
	c.ReplaceAll([]domain.Document{doc("a", domain.StatusCompleted, now)})
	c.Remove("a")
	if notified != 3 {
		t.Fatalf("notified = %d, want 3", notified)
	}

	// Rejected writes do not notify.
	c.Upsert(doc("a", domain.StatusPending, now))
	c.Upsert(doc("a", domain.StatusPending, now.Add(-time.Hour)))
	if notified != 4 {
		t.Fatalf("notified = %d, want 4 after one applied and one rejected write", notified)
	}

	unsubscribe()
	c.Reset()
	if notified != 4 {
		t.Fatalf("notified = %d, unsubscribe should stop callbacks", notified)
	}
}

func TestDocumentCacheReset(t *testing.T) {
	c := NewDocumentCache()
	c.Upsert(doc("a", domain.StatusCompleted, time.Now()))

	c.Reset()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected empty cache after reset")
	}
	if got := c.ListAll(); len(got) != 0 {
		t.Fatalf("ListAll = %v, want empty", got)
	}
}
