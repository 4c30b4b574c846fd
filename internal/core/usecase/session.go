package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/ports"
)

// SessionManager owns the sign-in/sign-up/sign-out lifecycle. Signing out
// tears down both caches and stops any active poll, so the next session
// starts from an empty read model.
type SessionManager struct {
	accounts     ports.AccountService
	sessions     ports.SessionStore
	docs         *cache.DocumentCache
	interactions *cache.InteractionStore
	poller       *StatusPoller
}

func NewSessionManager(
	accounts ports.AccountService,
	sessions ports.SessionStore,
	docs *cache.DocumentCache,
	interactions *cache.InteractionStore,
	poller *StatusPoller,
) *SessionManager {
	return &SessionManager{
		accounts:     accounts,
		sessions:     sessions,
		docs:         docs,
		interactions: interactions,
		poller:       poller,
	}
}

func (m *SessionManager) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := m.accounts.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := m.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

func (m *SessionManager) SignUp(ctx context.Context, name, email, password string) (*domain.Session, error) {
	session, err := m.accounts.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := m.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

func (m *SessionManager) SignOut() error {
	m.poller.Stop()
	m.docs.Reset()
	m.interactions.Reset()
	if err := m.sessions.Delete(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CurrentUser validates the stored credential against the service and
// returns the fresh profile.
func (m *SessionManager) CurrentUser(ctx context.Context) (*domain.User, error) {
	session, err := m.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.AccessToken == "" {
		return nil, domain.WrapError(domain.ErrUnauthorized, "current user", errors.New("no stored session"))
	}

	user, err := m.accounts.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return user, nil
}

func (m *SessionManager) UpdateProfile(ctx context.Context, name string) (*domain.User, error) {
	user, err := m.accounts.UpdateProfile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if session, loadErr := m.sessions.Load(); loadErr == nil && session != nil {
		session.User = *user
		if saveErr := m.sessions.Save(session); saveErr != nil {
			return nil, fmt.Errorf("persist updated profile: %w", saveErr)
		}
	}
	return user, nil
}
