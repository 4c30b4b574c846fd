package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/ports"
)

// Interactions is the read-through facade over the interaction store: reads
// serve fresh cached history and refetch stale entries; ask invalidates,
// clear installs an explicit empty history.
type Interactions struct {
	svc   ports.DocumentService
	store *cache.InteractionStore
}

func NewInteractions(svc ports.DocumentService, store *cache.InteractionStore) *Interactions {
	return &Interactions{
		svc:   svc,
		store: store,
	}
}

// History returns the ordered Q&A history for documentID, refetching from the
// server when the cached entry is missing or stale.
func (i *Interactions) History(ctx context.Context, documentID string) ([]domain.Interaction, error) {
	if items, fresh := i.store.Get(documentID); fresh {
		return items, nil
	}

	items, err := i.svc.ListInteractions(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	i.store.Put(documentID, items)
	return items, nil
}

// Ask submits a question. On success the cached history is invalidated: the
// ask response does not carry the full updated list, so the only correct
// representation is a refetch. On failure the cache is left untouched.
func (i *Interactions) Ask(ctx context.Context, documentID, question string) (*domain.Interaction, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask question", errors.New("question is empty"))
	}

	interaction, err := i.svc.AskQuestion(ctx, documentID, question)
	if err != nil {
		return nil, fmt.Errorf("ask question: %w", err)
	}
	i.store.Invalidate(documentID)
	return interaction, nil
}

// Clear wipes the document's history server-side, then installs the known
// empty post-state locally without a refetch.
func (i *Interactions) Clear(ctx context.Context, documentID string) error {
	if err := i.svc.ClearInteractions(ctx, documentID); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	i.store.Clear(documentID)
	return nil
}
