package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	remoteout "ansitzplaner/internal/modules/remote/adapter/out"
	"ansitzplaner/internal/modules/remote/domain"
)

func TestPluginBackendIntegrationSQLiteDriver(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the driver binary")
	}
	binPath, checksum := buildSQLiteDriver(t)
	manifest := domain.DriverManifest{
		Name:    "sqlite",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  checksum,
		Enabled: true,
		Env:     map[string]string{"ANSITZ_DRIVER_DB": filepath.Join(t.TempDir(), "driver.db")},
	}

	backend, err := remoteout.StartPluginBackend(manifest, nil)
	if err != nil {
		t.Fatalf("start plugin backend: %v", err)
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := backend.Upsert(ctx, domain.TableSessions, domain.Record{"id": "a1", "revier_id": "r1"}); err != nil {
		t.Fatalf("upsert through driver: %v", err)
	}
	rows, err := backend.Select(ctx, domain.Query{Table: domain.TableSessions, Eq: map[string]string{"revier_id": "r1"}})
	if err != nil {
		t.Fatalf("select through driver: %v", err)
	}
	if len(rows) != 1 || rows[0].ID() != "a1" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestPluginBackendRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	bin := filepath.Join(t.TempDir(), "driver")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake driver: %v", err)
	}
	_, err := remoteout.StartPluginBackend(domain.DriverManifest{
		Name:    "fake",
		Binary:  bin,
		SHA256:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Enabled: true,
	}, nil)
	if err != domain.ErrChecksumMismatch {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func buildSQLiteDriver(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "sqlite-backend")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/sqlite-backend")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build sqlite driver: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built driver: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
