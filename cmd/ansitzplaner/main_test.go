package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStandIsQueuedWhileRemoteIsDown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := "remote:\n  address: 127.0.0.1:1\n  call_timeout: 1s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := run(t, "--data", dir, "ground", "use", "--id", "g-1", "--name", "Nord", "--role", "eigentuemer"); err != nil {
		t.Fatalf("ground use: %v", err)
	}
	out, err := run(t, "--data", dir, "stand", "add", "--name", "Eiche", "--lat", "51.1", "--lng", "10.2", "--winds", "W,SW")
	if err != nil {
		t.Fatalf("stand add: %v", err)
	}
	if !strings.Contains(out, "queued as") {
		t.Fatalf("expected queued stand, got %q", out)
	}
	out, err = run(t, "--data", dir, "sync", "status")
	if err != nil {
		t.Fatalf("sync status: %v", err)
	}
	if !strings.Contains(out, "pending=1") {
		t.Fatalf("expected one pending operation, got %q", out)
	}
}

func TestRequiredFlags(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cases := [][]string{
		{"stand", "add"},
		{"stand", "remove"},
		{"session", "start"},
		{"sync", "discard"},
		{"ground", "use"},
	}
	for _, args := range cases {
		if _, err := run(t, append([]string{"--data", dir}, args...)...); err == nil || !strings.Contains(err.Error(), "is required") {
			t.Fatalf("%v: expected required flag error, got %v", args, err)
		}
	}
}

func TestParseSeasons(t *testing.T) {
	t.Parallel()
	seasons, err := parseSeasons([]string{"Rehwild=05-01:01-31", " Schwarzwild =01-01:12-31"})
	if err != nil {
		t.Fatalf("parse seasons: %v", err)
	}
	if seasons["Rehwild"].From != "05-01" || seasons["Schwarzwild"].To != "12-31" {
		t.Fatalf("unexpected seasons %+v", seasons)
	}
	if _, err := parseSeasons([]string{"Rehwild"}); err == nil {
		t.Fatalf("expected error for malformed season")
	}
}
