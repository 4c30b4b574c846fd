// Package session persists the bearer credential between runs, the CLI
// equivalent of the browser cookie the service's web client uses.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// FileStore keeps the session in a YAML file (0600) and caches it in memory
// after the first read. It implements both ports.SessionStore and the remote
// client's TokenProvider.
type FileStore struct {
	path string

	mu      sync.Mutex
	loaded  bool
	current *domain.Session
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() (*domain.Session, error) {
	if s.loaded {
		return s.current, nil
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var stored domain.Session
	if err := yaml.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	s.current = &stored
	s.loaded = true
	return s.current, nil
}

func (s *FileStore) Save(sess *domain.Session) error {
	raw, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	s.mu.Lock()
	copySess := *sess
	s.current = &copySess
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Token implements the remote client's TokenProvider.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadLocked()
	if err != nil || sess == nil {
		return ""
	}
	return sess.AccessToken
}
