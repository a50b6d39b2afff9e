package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ansitzplaner/internal/modules/hunting/domain"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	apperrors "ansitzplaner/internal/platform/errors"
)

type preferences struct {
	ActiveGround *domain.Ground `json:"active_ground"`
}

// FilePreferenceStore persists client-side preferences, currently the
// active ground.
type FilePreferenceStore struct {
	path string
}

func NewFilePreferenceStore(path string) huntingout.PreferenceStore {
	return &FilePreferenceStore{path: path}
}

func (s *FilePreferenceStore) SaveGround(_ context.Context, ground domain.Ground) error {
	prefs, err := s.load()
	if err != nil {
		return err
	}
	prefs.ActiveGround = &ground
	if err := writeJSON(s.path, prefs); err != nil {
		return fmt.Errorf("save preferences: %w: %w", apperrors.ErrLocalStorage, err)
	}
	return nil
}

func (s *FilePreferenceStore) LoadGround(_ context.Context) (domain.Ground, error) {
	prefs, err := s.load()
	if err != nil {
		return domain.Ground{}, err
	}
	if prefs.ActiveGround == nil || prefs.ActiveGround.ID == "" {
		return domain.Ground{}, apperrors.ErrNoActiveGround
	}
	ground := *prefs.ActiveGround
	ground.Settings = ground.Settings.Normalize()
	return ground, nil
}

func (s *FilePreferenceStore) load() (preferences, error) {
	prefs := preferences{}
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences: %w: %w", apperrors.ErrLocalStorage, err)
	}
	if err := json.Unmarshal(payload, &prefs); err != nil {
		return prefs, fmt.Errorf("decode preferences: %w: %w", apperrors.ErrLocalStorage, err)
	}
	return prefs, nil
}
