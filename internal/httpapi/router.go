package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	huntingin "ansitzplaner/internal/modules/hunting/port/in"
	scoringin "ansitzplaner/internal/modules/scoring/port/in"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/logging"
)

type Services struct {
	Hunting huntingin.Usecase
	Scoring scoringin.Usecase
	Weather weatherin.Usecase
	Sync    syncin.Usecase
	Logger  hclog.Logger
}

type api struct {
	Services
}

// NewRouter mounts the JSON API under /api.
func NewRouter(s Services) http.Handler {
	s.Logger = logging.OrNull(s.Logger)
	a := api{Services: s}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ground", a.ground)

		r.Route("/stands", func(r chi.Router) {
			r.Get("/", a.listStands)
			r.Post("/", a.createStand)
			r.Patch("/{id}", a.updateStand)
			r.Delete("/{id}", a.removeStand)
		})
		r.Get("/sessions", a.listSessions)
		r.Get("/sessions/active", a.activeSession)

		r.Get("/heatmap", a.heatmap)
		r.Get("/best-times", a.bestTimes)
		r.Get("/stats", a.statistics)

		r.Route("/weather", func(r chi.Router) {
			r.Get("/current", a.currentWeather)
			r.Get("/week", a.weekWeather)
			r.Get("/moon", a.moon)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", a.syncStatus)
			r.Post("/drain", a.drain)
			r.Delete("/operations/{id}", a.discard)
		})
	})
	return r
}

func (a api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrNoActiveSession),
		errors.Is(err, apperrors.ErrNoActiveGround):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrActiveSessionExists),
		errors.Is(err, apperrors.ErrSessionClosed),
		errors.Is(err, apperrors.ErrHarvestExists),
		errors.Is(err, apperrors.ErrHeatmapDisabled),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRemoteUnavailable),
		errors.Is(err, apperrors.ErrOffline):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, apperrors.ErrInvalidInput)
	}
	return nil
}
