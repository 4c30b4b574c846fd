package ports

import (
	"context"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// DocumentUploader is the inbound contract for validated uploads, used by
// the CLI and the watch-directory agent.
type DocumentUploader interface {
	Upload(ctx context.Context, path string) (*domain.Document, error)
}

// StatusWatcher drives polling for the currently selected document.
type StatusWatcher interface {
	SetActiveDocument(id string)
	ActiveDocument() string
	Stop()
}
