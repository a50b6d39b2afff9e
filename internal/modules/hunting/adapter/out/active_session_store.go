package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ansitzplaner/internal/modules/hunting/domain"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	apperrors "ansitzplaner/internal/platform/errors"
)

// FileActiveSessionStore keeps the running session in one JSON file so it
// survives restarts.
type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(path string) huntingout.ActiveSessionStore {
	return &FileActiveSessionStore{path: path}
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.Session) error {
	if err := writeJSON(s.path, session); err != nil {
		return fmt.Errorf("save active session: %w: %w", apperrors.ErrLocalStorage, err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoActiveSession
		}
		return domain.Session{}, fmt.Errorf("read active session: %w: %w", apperrors.ErrLocalStorage, err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode active session: %w: %w", apperrors.ErrLocalStorage, err)
	}
	if session.ID == "" || !session.Active() {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return session, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active session: %w: %w", apperrors.ErrLocalStorage, err)
	}
	return nil
}

// writeJSON replaces path atomically through a temp file in the same dir.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
