package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/ports"
)

// DocumentBrowser orchestrates listing, selection, deletion and download of
// documents, keeping the document cache in sync and driving the status poller
// through selections.
type DocumentBrowser struct {
	svc    ports.DocumentService
	cache  *cache.DocumentCache
	poller *StatusPoller
}

func NewDocumentBrowser(svc ports.DocumentService, docs *cache.DocumentCache, poller *StatusPoller) *DocumentBrowser {
	return &DocumentBrowser{
		svc:    svc,
		cache:  docs,
		poller: poller,
	}
}

// Refresh fetches the listing and replaces the cache wholesale, preserving
// server order.
func (b *DocumentBrowser) Refresh(ctx context.Context) ([]domain.Document, error) {
	docs, err := b.svc.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	b.cache.ReplaceAll(docs)
	return b.cache.ListAll(), nil
}

// Select makes id the active document and re-evaluates the polling
// activation rule for it.
func (b *DocumentBrowser) Select(id string) (domain.Document, error) {
	doc, ok := b.cache.Get(id)
	if !ok {
		return domain.Document{}, domain.WrapError(domain.ErrDocumentNotFound, "select document", fmt.Errorf("id %q not in cache", id))
	}
	b.poller.SetActiveDocument(id)
	return doc, nil
}

func (b *DocumentBrowser) Delete(ctx context.Context, id string) error {
	if err := b.svc.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if b.poller.ActiveDocument() == id {
		b.poller.SetActiveDocument("")
	}
	b.cache.Remove(id)
	return nil
}

// Download fetches the annotated text export and writes it next to destDir
// as "<filename stem>_annotated.txt", returning the written path.
func (b *DocumentBrowser) Download(ctx context.Context, id, destDir string) (string, error) {
	doc, ok := b.cache.Get(id)
	if !ok {
		return "", domain.WrapError(domain.ErrDocumentNotFound, "download document", fmt.Errorf("id %q not in cache", id))
	}

	body, err := b.svc.DownloadDocument(ctx, id)
	if err != nil {
		return "", fmt.Errorf("download document: %w", err)
	}
	defer body.Close()

	path := filepath.Join(destDir, exportFileName(doc.FileName))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func exportFileName(original string) string {
	stem := strings.TrimSuffix(original, filepath.Ext(original))
	if stem == "" {
		stem = "document"
	}
	return stem + "_annotated.txt"
}
