package doclytics

import (
	"context"
	"io"
	"net/http"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := c.exec.Execute(ctx, "list_documents", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/documents", nil, &docs, "list documents")
	}, classifyIdempotent)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument is the poller's fetch. It deliberately bypasses the retry
// executor: one tick issues exactly one request, and the poller applies its
// own error policy.
func (c *Client) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+id, nil, &doc, "get document"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) UploadDocument(ctx context.Context, filename string, body io.Reader) (*domain.Document, error) {
	var doc domain.Document
	err := c.exec.Execute(ctx, "upload_document", func(ctx context.Context) error {
		return c.doMultipart(ctx, "/documents/upload", filename, body, &doc, "upload document")
	}, classifyMutation)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.exec.Execute(ctx, "delete_document", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodDelete, "/documents/"+id, nil, nil, "delete document")
	}, classifyIdempotent)
}

// DownloadDocument streams the annotated text export. The caller closes the
// returned body. No retry: the stream is consumed incrementally.
func (c *Client) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, error) {
	return c.doStream(ctx, http.MethodGet, "/documents/"+id+"/download", "download document")
}
