package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrDriverDisabled   = errors.New("backend driver is disabled")
	ErrDriverNotFound   = errors.New("backend driver not found")
	ErrChecksumMismatch = errors.New("backend driver checksum mismatch")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// DriverManifest describes an out-of-process backend driver binary.
type DriverManifest struct {
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Binary  string            `yaml:"binary"`
	SHA256  string            `yaml:"sha256"`
	Enabled bool              `yaml:"enabled"`
	Env     map[string]string `yaml:"env"`
}

func (m DriverManifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("driver name is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("driver binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("driver sha256 must be lowercase 64-char hex")
	}
	return nil
}

// SelectDriver returns the named, enabled and valid manifest.
func SelectDriver(manifests []DriverManifest, name string) (DriverManifest, error) {
	for _, m := range manifests {
		if m.Name != name {
			continue
		}
		if err := m.Validate(); err != nil {
			return DriverManifest{}, err
		}
		if !m.Enabled {
			return DriverManifest{}, fmt.Errorf("%w: %s", ErrDriverDisabled, name)
		}
		return m, nil
	}
	return DriverManifest{}, fmt.Errorf("%w: %s", ErrDriverNotFound, name)
}
