package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solargrid/solargrid-web/pkg/logger"
	"github.com/solargrid/solargrid-web/pkg/metrics"
)

const sessionFile = "session.json"

// FileStore implements Store for a single local user using a JSON file.
// Writes go to a temporary file that is renamed over the old one, so a reader
// sees either the previous Session or the new one, never a mix.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// DefaultFilePath returns ~/.solargrid/session.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".solargrid", sessionFile), nil
}

// NewFileStore creates the parent directory of path (0700) and returns the store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(ctx context.Context, sess *Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Current(ctx context.Context) (*Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("session: failed to read %s: %v", s.path, err)
			metrics.SessionStoreErrors.WithLabelValues("file").Inc()
		}
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		logger.Warnf("session: corrupt session file %s: %v", s.path, err)
		metrics.SessionStoreErrors.WithLabelValues("file").Inc()
		return nil, false
	}
	if err := sess.Validate(); err != nil {
		logger.Warnf("session: discarding %s: %v", s.path, err)
		return nil, false
	}
	return &sess, true
}

// Clear deletes the session file. A missing file is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
