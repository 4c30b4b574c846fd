package ports

import (
	"context"
	"io"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// DocumentService is the remote REST API owning documents, OCR status
// and Q&A interactions. It is the single source of truth; everything
// cached locally is re-derivable from it.
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	UploadDocument(ctx context.Context, filename string, body io.Reader) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	DownloadDocument(ctx context.Context, id string) (io.ReadCloser, error)

	ListInteractions(ctx context.Context, documentID string) ([]domain.Interaction, error)
	AskQuestion(ctx context.Context, documentID, question string) (*domain.Interaction, error)
	ClearInteractions(ctx context.Context, documentID string) error
}

// AccountService is the authentication surface the session layer depends on.
type AccountService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, name string) (*domain.User, error)
}

// SessionStore persists the bearer credential between runs.
type SessionStore interface {
	Load() (*domain.Session, error)
	Save(session *domain.Session) error
	Delete() error
}
