package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ansitzplaner/internal/httpapi"
	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	huntingin "ansitzplaner/internal/modules/hunting/port/in"
	scoringdto "ansitzplaner/internal/modules/scoring/dto"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	apperrors "ansitzplaner/internal/platform/errors"
)

type fakeScoring struct {
	last scoringdto.HeatmapInput
	err  error
}

func (f *fakeScoring) Heatmap(_ context.Context, in scoringdto.HeatmapInput) (scoringdto.HeatmapOutput, error) {
	f.last = in
	if f.err != nil {
		return scoringdto.HeatmapOutput{}, f.err
	}
	return scoringdto.HeatmapOutput{GroundID: "g-1", Month: in.Month, Stands: []scoringdto.StandScoreOutput{{StandID: "a", Score: 69, Color: "gray"}}}, nil
}

func (f *fakeScoring) BestTimes(context.Context, scoringdto.HeatmapInput) (scoringdto.BestTimesOutput, error) {
	return scoringdto.BestTimesOutput{}, f.err
}

func (f *fakeScoring) Statistics(context.Context, scoringdto.StatisticsInput) (scoringdto.StatisticsOutput, error) {
	return scoringdto.StatisticsOutput{Report: "# Statistik Nord\n"}, f.err
}

type fakeSync struct {
	syncin.Usecase
	drained   int
	discarded string
}

func (f *fakeSync) Drain(_ context.Context, onConflict func(string)) (syncdto.DrainOutput, error) {
	f.drained++
	onConflict("overwritten")
	return syncdto.DrainOutput{Attempted: 2, Replayed: 2, Conflicts: 1}, nil
}

func (f *fakeSync) Discard(_ context.Context, id string) error {
	if id == "missing" {
		return apperrors.ErrNotFound
	}
	f.discarded = id
	return nil
}

type fakeHunting struct {
	huntingin.Usecase
	created huntingdto.StandInput
}

func (f *fakeHunting) CreateStand(_ context.Context, in huntingdto.StandInput) (huntingdto.StandWriteOutput, error) {
	f.created = in
	return huntingdto.StandWriteOutput{Stand: huntingdto.StandOutput{ID: "st-1", Name: in.Name}, WriteOutput: huntingdto.WriteOutput{Queued: true, OperationID: "op-1"}}, nil
}

func (f *fakeHunting) ActiveSession(context.Context) (huntingdto.SessionOutput, error) {
	return huntingdto.SessionOutput{}, apperrors.ErrNoActiveSession
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHeatmapEndpointParsesQuery(t *testing.T) {
	t.Parallel()
	scoring := &fakeScoring{}
	router := httpapi.NewRouter(httpapi.Services{Scoring: scoring})

	rec := serve(t, router, http.MethodGet, "/api/heatmap?month=10&from=16&to=20&species=Rehwild", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if scoring.last.Month != 10 || *scoring.last.HourFrom != 16 || *scoring.last.HourTo != 20 || scoring.last.Species != "Rehwild" {
		t.Fatalf("unexpected input %+v", scoring.last)
	}
	var out scoringdto.HeatmapOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Stands) != 1 || out.Stands[0].Score != 69 {
		t.Fatalf("unexpected body %+v", out)
	}

	if rec := serve(t, router, http.MethodGet, "/api/heatmap?month=zehn", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad month, got %d", rec.Code)
	}
}

func TestErrorsMapToStatusCodes(t *testing.T) {
	t.Parallel()
	router := httpapi.NewRouter(httpapi.Services{
		Scoring: &fakeScoring{err: apperrors.ErrHeatmapDisabled},
		Hunting: &fakeHunting{},
	})
	cases := []struct {
		target string
		want   int
	}{
		{"/api/heatmap", http.StatusConflict},
		{"/api/sessions/active", http.StatusNotFound},
		{"/api/weather/current?lat=x&lng=1", http.StatusBadRequest},
		{"/api/stats?since=gestern", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := serve(t, router, http.MethodGet, tc.target, ""); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.target, tc.want, rec.Code)
		}
	}
}

func TestDrainAndDiscardEndpoints(t *testing.T) {
	t.Parallel()
	queue := &fakeSync{}
	router := httpapi.NewRouter(httpapi.Services{Sync: queue})

	rec := serve(t, router, http.MethodPost, "/api/sync/drain", "")
	if rec.Code != http.StatusOK || queue.drained != 1 {
		t.Fatalf("expected drain, got %d", rec.Code)
	}
	var out syncdto.DrainOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Replayed != 2 || out.Conflicts != 1 {
		t.Fatalf("unexpected drain body %s (%v)", rec.Body.String(), err)
	}
	if rec := serve(t, router, http.MethodDelete, "/api/sync/operations/op-7", ""); rec.Code != http.StatusNoContent || queue.discarded != "op-7" {
		t.Fatalf("expected discard, got %d", rec.Code)
	}
	if rec := serve(t, router, http.MethodDelete, "/api/sync/operations/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateStandDecodesBody(t *testing.T) {
	t.Parallel()
	hunting := &fakeHunting{}
	router := httpapi.NewRouter(httpapi.Services{Hunting: hunting})

	rec := serve(t, router, http.MethodPost, "/api/stands", `{"name":"Eiche","position":{"lat":51.1,"lng":10.2},"guenstige_windrichtungen":["W","SW"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if hunting.created.Name != "Eiche" || hunting.created.Position.Lat != 51.1 || len(hunting.created.FavorableWinds) != 2 {
		t.Fatalf("unexpected input %+v", hunting.created)
	}
	if !strings.Contains(rec.Body.String(), `"operation_id":"op-1"`) {
		t.Fatalf("expected queued write in body: %s", rec.Body.String())
	}
	if rec := serve(t, router, http.MethodPost, "/api/stands", `{"hoehe":3}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestStatisticsMarkdownFormat(t *testing.T) {
	t.Parallel()
	router := httpapi.NewRouter(httpapi.Services{Scoring: &fakeScoring{}})
	rec := serve(t, router, http.MethodGet, "/api/stats?format=markdown&since=2026-01-01", "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "# Statistik") {
		t.Fatalf("unexpected markdown response %d: %s", rec.Code, rec.Body.String())
	}
}
