package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/ports"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var mimeTypeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// Uploader validates files client-side and streams accepted ones to the
// remote service. Rejections happen before any network call is issued.
type Uploader struct {
	svc    ports.DocumentService
	cache  *cache.DocumentCache
	logger *slog.Logger
}

func NewUploader(svc ports.DocumentService, docs *cache.DocumentCache, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		svc:    svc,
		cache:  docs,
		logger: logger,
	}
}

func (u *Uploader) Upload(ctx context.Context, path string) (*domain.Document, error) {
	if err := validateUpload(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	doc, err := u.svc.UploadDocument(ctx, filepath.Base(path), file)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	u.cache.Upsert(*doc)

	// The created document is already visible; the wholesale listing refresh
	// only restores server order, so its failure is not the upload's failure.
	if docs, err := u.svc.ListDocuments(ctx); err == nil {
		u.cache.ReplaceAll(docs)
	} else {
		u.logger.Debug("post_upload_list_refresh_failed", "error", err)
	}

	return doc, nil
}

func validateUpload(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat upload file: %w", err)
	}
	if info.Size() > maxUploadBytes {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file %s exceeds the max 10MB upload limit", filepath.Base(path)))
	}

	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := mimeTypeByExt[ext]
	if !ok {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("unsupported file type %q: accepted types are jpg, jpeg, png, pdf", ext))
	}

	if mimeType == "application/pdf" {
		if err := validatePDF(path); err != nil {
			return domain.WrapError(domain.ErrInvalidInput, "validate upload", err)
		}
	}
	return nil
}

func validatePDF(path string) error {
	file, _, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("file is not a readable PDF: %w", err)
	}
	file.Close()
	return nil
}

// IsValidationError reports whether err is a client-side upload rejection,
// meaning no request reached the service.
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
