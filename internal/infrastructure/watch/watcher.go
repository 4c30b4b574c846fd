// Package watch auto-uploads documents that appear in a local directory.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/ports"
	"github.com/HamiltonMussi/doclytics-go/internal/core/usecase"
)

// settleDelay gives the writing process time to finish before the file is
// read for upload.
const settleDelay = 500 * time.Millisecond

// Watcher uploads every supported file created in dir. Validation rejections
// are logged and skipped; upload failures are logged and the file is left in
// place.
type Watcher struct {
	dir      string
	uploader ports.DocumentUploader
	logger   *slog.Logger

	// OnUploaded, when set, runs after each successful upload. The watch
	// agent uses it to poll the new document to a terminal status.
	OnUploaded func(ctx context.Context, doc domain.Document)
}

func New(dir string, uploader ports.DocumentUploader, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		uploader: uploader,
		logger:   logger,
	}
}

// Run watches the directory until ctx is cancelled. Events are handled
// sequentially: one upload (and its follow-up) at a time.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching_directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.handleCreated(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher_error", "error", err)
		}
	}
}

func (w *Watcher) handleCreated(ctx context.Context, path string) {
	if !supportedFile(path) {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(settleDelay):
	}

	doc, err := w.uploader.Upload(ctx, path)
	if err != nil {
		if usecase.IsValidationError(err) {
			w.logger.Warn("upload_rejected", "path", path, "error", err)
		} else {
			w.logger.Error("upload_failed", "path", path, "error", err)
		}
		return
	}
	w.logger.Info("document_uploaded", "path", path, "document_id", doc.ID, "status", doc.OcrStatus)

	if w.OnUploaded != nil {
		w.OnUploaded(ctx, *doc)
	}
}

func supportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".pdf":
		return true
	default:
		return false
	}
}
