package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	huntingout "ansitzplaner/internal/modules/hunting/adapter/out"
	"ansitzplaner/internal/modules/hunting/domain"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/markdown"
	"ansitzplaner/internal/platform/sqlitedb"
)

var begin = time.Date(2026, 10, 3, 5, 15, 0, 0, time.UTC)

func sampleSession(t *testing.T) domain.Session {
	t.Helper()
	s, err := domain.NewSession("s-1", "g-1", "st-1", "h-1", begin, time.UTC, domain.Conditions{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.AddSighting(domain.Sighting{ID: "b-1", Species: domain.SpeciesWildBoar, Count: 3, Behavior: domain.BehaviorMoving, At: begin.Add(20 * time.Minute)}); err != nil {
		t.Fatalf("add sighting: %v", err)
	}
	return s
}

func TestSQLiteStoreSessionsAndStands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	store, err := huntingout.NewSQLiteStore(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	session := sampleSession(t)
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("save session twice: %v", err)
	}
	sessions, err := store.Sessions(ctx, "g-1")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Sightings) != 1 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	sightings, err := store.Sightings(ctx, "s-1")
	if err != nil || len(sightings) != 1 || sightings[0].SessionID != "s-1" {
		t.Fatalf("unexpected sightings %+v (%v)", sightings, err)
	}
	if other, _ := store.Sessions(ctx, "g-2"); len(other) != 0 {
		t.Fatalf("ground index leaked: %+v", other)
	}

	stands := []domain.Stand{
		{ID: "st-1", GroundID: "g-1", Name: "Eiche"},
		{ID: "st-2", GroundID: "g-1", Name: "Buche"},
		{ID: "st-3", GroundID: "g-2", Name: "Fremd"},
	}
	if err := store.SaveStands(ctx, stands...); err != nil {
		t.Fatalf("save stands: %v", err)
	}
	got, err := store.Stands(ctx, "g-1")
	if err != nil || len(got) != 2 {
		t.Fatalf("unexpected stands %+v (%v)", got, err)
	}
	if err := store.DeleteStand(ctx, "st-1"); err != nil {
		t.Fatalf("delete stand: %v", err)
	}
	if _, err := store.Stand(ctx, "st-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if sessions, _ := store.Sessions(ctx, "g-1"); len(sessions) != 1 {
		t.Fatalf("deleting a stand must keep its sessions")
	}
}

func TestFileActiveSessionStoreLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := huntingout.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "state", "active.json"))

	if _, err := store.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	session := sampleSession(t)
	if err := store.SaveActive(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.LoadActive(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != session.ID || len(loaded.Sightings) != 1 || !loaded.Start.Equal(begin) {
		t.Fatalf("round trip lost data: %+v", loaded)
	}
	if err := store.ClearActive(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.ClearActive(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	if _, err := store.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session after clear, got %v", err)
	}
}

func TestFilePreferenceStoreActiveGround(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := huntingout.NewFilePreferenceStore(filepath.Join(t.TempDir(), "preferences.json"))
	if _, err := store.LoadGround(ctx); !errors.Is(err, apperrors.ErrNoActiveGround) {
		t.Fatalf("expected no active ground, got %v", err)
	}
	if err := store.SaveGround(ctx, domain.Ground{ID: "g-1", Name: "Hegering Nord", Role: domain.RoleOwner}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ground, err := store.LoadGround(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ground.ID != "g-1" || ground.Settings.Timezone != domain.DefaultTimezone || !ground.Settings.HeatmapOn() {
		t.Fatalf("unexpected ground %+v", ground)
	}
}

func TestMarkdownJournalWritesDatedNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	journal := huntingout.NewMarkdownJournal(dir, berlin)
	session := sampleSession(t)
	if err := session.Close(begin.Add(2*time.Hour), true, "Rotte am Waldrand"); err != nil {
		t.Fatalf("close: %v", err)
	}

	path, err := journal.Write(context.Background(), session, "Alte Eiche")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	wantDir := filepath.Join(dir, "2026", "10", "03")
	if filepath.Dir(path) != wantDir || !strings.HasPrefix(filepath.Base(path), "071500-") {
		t.Fatalf("unexpected journal path %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	meta := map[string]any{}
	body, err := markdown.SplitFrontmatter(string(raw), &meta)
	if err != nil {
		t.Fatalf("split frontmatter: %v", err)
	}
	if meta["id"] != "s-1" || meta["erfolg"] != true || meta["dauer_minuten"] != 120 {
		t.Fatalf("unexpected frontmatter %+v", meta)
	}
	if !strings.Contains(body, "3x Schwarzwild") || !strings.Contains(body, "Rotte am Waldrand") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}
