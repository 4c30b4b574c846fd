package doclytics

import (
	"context"
	"net/http"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

func (c *Client) ListInteractions(ctx context.Context, documentID string) ([]domain.Interaction, error) {
	var interactions []domain.Interaction
	err := c.exec.Execute(ctx, "list_interactions", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/documents/"+documentID+"/interactions", nil, &interactions, "list interactions")
	}, classifyIdempotent)
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

func (c *Client) AskQuestion(ctx context.Context, documentID, question string) (*domain.Interaction, error) {
	payload := map[string]string{"question": question}

	var interaction domain.Interaction
	err := c.exec.Execute(ctx, "ask_question", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodPost, "/documents/"+documentID+"/interactions/ask", payload, &interaction, "ask question")
	}, classifyMutation)
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (c *Client) ClearInteractions(ctx context.Context, documentID string) error {
	return c.exec.Execute(ctx, "clear_interactions", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodDelete, "/documents/"+documentID+"/interactions", nil, nil, "clear interactions")
	}, classifyIdempotent)
}
