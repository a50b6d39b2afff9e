package out

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ansitzplaner/internal/modules/remote/domain"
	remoteout "ansitzplaner/internal/modules/remote/port/out"
)

type FileDriverManifestStore struct {
	basePath string
	path     string
}

// NewFileDriverManifestStore reads <dir>/drivers.yaml. Relative binaries
// resolve against dir.
func NewFileDriverManifestStore(dir string) remoteout.DriverManifestStore {
	return &FileDriverManifestStore{basePath: dir, path: filepath.Join(dir, "drivers.yaml")}
}

type manifestFile struct {
	Drivers []domain.DriverManifest `yaml:"drivers"`
}

func (s *FileDriverManifestStore) Load(_ context.Context) ([]domain.DriverManifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.DriverManifest{}, nil
		}
		return nil, fmt.Errorf("read driver manifests: %w", err)
	}
	file := manifestFile{}
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode driver manifests: %w", err)
	}
	for i := range file.Drivers {
		if file.Drivers[i].Binary != "" && !filepath.IsAbs(file.Drivers[i].Binary) {
			file.Drivers[i].Binary = filepath.Clean(filepath.Join(s.basePath, file.Drivers[i].Binary))
		}
	}
	if file.Drivers == nil {
		return []domain.DriverManifest{}, nil
	}
	return file.Drivers, nil
}
