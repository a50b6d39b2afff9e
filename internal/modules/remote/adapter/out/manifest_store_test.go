package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	remoteout "ansitzplaner/internal/modules/remote/adapter/out"
	"ansitzplaner/internal/modules/remote/domain"
)

func TestFileDriverManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	manifests, err := remoteout.NewFileDriverManifestStore(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileDriverManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `drivers:
  - name: sqlite
    version: 1.0.0
    binary: bin/sqlite-backend
    sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
    enabled: true
    env:
      ANSITZ_DRIVER_DB: /tmp/remote.db
`
	if err := os.WriteFile(filepath.Join(dir, "drivers.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write drivers.yaml: %v", err)
	}
	manifests, err := remoteout.NewFileDriverManifestStore(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if manifests[0].Binary != filepath.Join(dir, "bin", "sqlite-backend") {
		t.Fatalf("expected resolved binary path, got %s", manifests[0].Binary)
	}
	if manifests[0].Env["ANSITZ_DRIVER_DB"] != "/tmp/remote.db" {
		t.Fatalf("expected env to be decoded, got %v", manifests[0].Env)
	}
	selected, err := domain.SelectDriver(manifests, "sqlite")
	if err != nil {
		t.Fatalf("select driver: %v", err)
	}
	if selected.Version != "1.0.0" {
		t.Fatalf("unexpected version %s", selected.Version)
	}
	if _, err := domain.SelectDriver(manifests, "postgres"); !errors.Is(err, domain.ErrDriverNotFound) {
		t.Fatalf("expected driver not found, got %v", err)
	}
}

func TestFileDriverManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `drivers:
  - name: sqlite
    binary: /tmp/driver
    sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
    enabled: true
    unknown_field: true
`
	if err := os.WriteFile(filepath.Join(dir, "drivers.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write drivers.yaml: %v", err)
	}
	if _, err := remoteout.NewFileDriverManifestStore(dir).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestSelectDriverRejectsDisabled(t *testing.T) {
	t.Parallel()
	manifests := []domain.DriverManifest{{
		Name:   "sqlite",
		Binary: "/tmp/driver",
		SHA256: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}}
	if _, err := domain.SelectDriver(manifests, "sqlite"); !errors.Is(err, domain.ErrDriverDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
}
