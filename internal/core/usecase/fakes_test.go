package usecase

import (
	"context"
	"io"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// fakeDocService is a hand-rolled DocumentService double; each field, when
// set, overrides the corresponding call, and counters record traffic.
type fakeDocService struct {
	listFn     func(ctx context.Context) ([]domain.Document, error)
	uploadFn   func(ctx context.Context, filename string, body io.Reader) (*domain.Document, error)
	deleteFn   func(ctx context.Context, id string) error
	downloadFn func(ctx context.Context, id string) (io.ReadCloser, error)

	listInteractionsFn func(ctx context.Context, documentID string) ([]domain.Interaction, error)
	askFn              func(ctx context.Context, documentID, question string) (*domain.Interaction, error)
	clearFn            func(ctx context.Context, documentID string) error

	listCalls             int
	uploadCalls           int
	deleteCalls           int
	listInteractionsCalls int
	askCalls              int
	clearCalls            int
}

func (f *fakeDocService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	f.listCalls++
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeDocService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return nil, domain.ErrDocumentNotFound
}

func (f *fakeDocService) UploadDocument(ctx context.Context, filename string, body io.Reader) (*domain.Document, error) {
	f.uploadCalls++
	if f.uploadFn != nil {
		return f.uploadFn(ctx, filename, body)
	}
	return &domain.Document{ID: "uploaded", FileName: filename, OcrStatus: domain.StatusPending}, nil
}

func (f *fakeDocService) DeleteDocument(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeDocService) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, error) {
	if f.downloadFn != nil {
		return f.downloadFn(ctx, id)
	}
	return io.NopCloser(nil), nil
}

func (f *fakeDocService) ListInteractions(ctx context.Context, documentID string) ([]domain.Interaction, error) {
	f.listInteractionsCalls++
	if f.listInteractionsFn != nil {
		return f.listInteractionsFn(ctx, documentID)
	}
	return nil, nil
}

func (f *fakeDocService) AskQuestion(ctx context.Context, documentID, question string) (*domain.Interaction, error) {
	f.askCalls++
	if f.askFn != nil {
		return f.askFn(ctx, documentID, question)
	}
	return &domain.Interaction{ID: "new", DocumentID: documentID, Question: question}, nil
}

func (f *fakeDocService) ClearInteractions(ctx context.Context, documentID string) error {
	f.clearCalls++
	if f.clearFn != nil {
		return f.clearFn(ctx, documentID)
	}
	return nil
}
