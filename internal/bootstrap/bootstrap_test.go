package bootstrap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ansitzplaner/internal/bootstrap"
	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	"ansitzplaner/internal/platform/config"
)

func TestNewWiresOfflineApp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Remote.Address = "127.0.0.1:1"
	cfg.Remote.CallTimeout = time.Second

	app, err := bootstrap.New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	if _, err := app.HuntingCLI.UseGround(ctx, huntingdto.GroundInput{ID: "g-1", Name: "Nord", Role: "eigentuemer"}); err != nil {
		t.Fatalf("use ground: %v", err)
	}
	written, err := app.HuntingCLI.AddStand(ctx, huntingdto.StandInput{Name: "Eiche"})
	if err != nil {
		t.Fatalf("add stand: %v", err)
	}
	if !written.Queued {
		t.Fatalf("expected the write to be queued while the remote is down")
	}
	status, err := app.SyncCLI.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Pending) != 1 || status.Pending[0].RecordID != written.Stand.ID {
		t.Fatalf("unexpected pending ops %+v", status.Pending)
	}

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stands", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected stands listing, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPluginModeWithoutDriverStaysOffline(t *testing.T) {
	t.Parallel()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Remote.Mode = config.RemoteModePlugin
	cfg.Remote.PluginName = "missing"

	app, err := bootstrap.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()
	status, err := app.SyncCLI.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Online {
		t.Fatalf("expected offline status without a driver")
	}
}
