package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	scoringdto "ansitzplaner/internal/modules/scoring/dto"
	weatherdto "ansitzplaner/internal/modules/weather/dto"
	apperrors "ansitzplaner/internal/platform/errors"
)

func (a api) ground(w http.ResponseWriter, r *http.Request) {
	out, err := a.Hunting.ActiveGround(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type standRequest struct {
	Type            string              `json:"typ"`
	Name            string              `json:"name"`
	Description     string              `json:"beschreibung"`
	Position        huntingdto.Position `json:"position"`
	HeightM         *float64            `json:"hoehe_meter"`
	OrientationDeg  *float64            `json:"ausrichtung_grad"`
	VisibilityM     *float64            `json:"sichtweite_meter"`
	Condition       string              `json:"zustand"`
	LastMaintenance string              `json:"letzte_wartung"`
	NextMaintenance string              `json:"naechste_wartung"`
	Notes           string              `json:"notizen"`
	FavorableWinds  []string            `json:"guenstige_windrichtungen"`
}

type standPatchRequest struct {
	Type            *string              `json:"typ"`
	Name            *string              `json:"name"`
	Description     *string              `json:"beschreibung"`
	Position        *huntingdto.Position `json:"position"`
	HeightM         *float64             `json:"hoehe_meter"`
	OrientationDeg  *float64             `json:"ausrichtung_grad"`
	VisibilityM     *float64             `json:"sichtweite_meter"`
	Condition       *string              `json:"zustand"`
	LastMaintenance *string              `json:"letzte_wartung"`
	NextMaintenance *string              `json:"naechste_wartung"`
	Notes           *string              `json:"notizen"`
	FavorableWinds  []string             `json:"guenstige_windrichtungen"`
}

func (a api) listStands(w http.ResponseWriter, r *http.Request) {
	out, err := a.Hunting.ListStands(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) createStand(w http.ResponseWriter, r *http.Request) {
	var req standRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Hunting.CreateStand(r.Context(), huntingdto.StandInput(req))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a api) updateStand(w http.ResponseWriter, r *http.Request) {
	var req standPatchRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Hunting.UpdateStand(r.Context(), chi.URLParam(r, "id"), huntingdto.StandPatchInput(req))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) removeStand(w http.ResponseWriter, r *http.Request) {
	out, err := a.Hunting.RemoveStand(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) listSessions(w http.ResponseWriter, r *http.Request) {
	out, err := a.Hunting.ListSessions(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) activeSession(w http.ResponseWriter, r *http.Request) {
	out, err := a.Hunting.ActiveSession(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// heatmapInput reads month, from, to and species from the query string.
func heatmapInput(r *http.Request) (scoringdto.HeatmapInput, error) {
	q := r.URL.Query()
	in := scoringdto.HeatmapInput{Species: q.Get("species")}
	month, err := optionalInt(q.Get("month"))
	if err != nil {
		return in, err
	}
	if month != nil {
		in.Month = *month
	}
	if in.HourFrom, err = optionalInt(q.Get("from")); err != nil {
		return in, err
	}
	if in.HourTo, err = optionalInt(q.Get("to")); err != nil {
		return in, err
	}
	return in, nil
}

func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", raw, apperrors.ErrInvalidInput)
	}
	return &v, nil
}

func (a api) heatmap(w http.ResponseWriter, r *http.Request) {
	in, err := heatmapInput(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Scoring.Heatmap(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) bestTimes(w http.ResponseWriter, r *http.Request) {
	in, err := heatmapInput(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Scoring.BestTimes(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) statistics(w http.ResponseWriter, r *http.Request) {
	in := scoringdto.StatisticsInput{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			a.fail(w, r, fmt.Errorf("parse since %q: %w", raw, apperrors.ErrInvalidInput))
			return
		}
		in.Since = since
	}
	out, err := a.Scoring.Statistics(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(out.Report))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func coordinate(r *http.Request) (weatherdto.CoordinateInput, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return weatherdto.CoordinateInput{}, fmt.Errorf("parse lat: %w", apperrors.ErrInvalidInput)
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return weatherdto.CoordinateInput{}, fmt.Errorf("parse lng: %w", apperrors.ErrInvalidInput)
	}
	return weatherdto.CoordinateInput{Lat: lat, Lng: lng}, nil
}

func (a api) currentWeather(w http.ResponseWriter, r *http.Request) {
	c, err := coordinate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Weather.Current(r.Context(), c)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) weekWeather(w http.ResponseWriter, r *http.Request) {
	c, err := coordinate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Weather.Week(r.Context(), c)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) moon(w http.ResponseWriter, r *http.Request) {
	c, err := coordinate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out, err := a.Weather.Astronomy(r.Context(), weatherdto.AstronomyInput{Lat: c.Lat, Lng: c.Lng})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) syncStatus(w http.ResponseWriter, r *http.Request) {
	out, err := a.Sync.Status(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) drain(w http.ResponseWriter, r *http.Request) {
	out, err := a.Sync.Drain(r.Context(), func(message string) {
		a.Logger.Info("sync conflict resolved", "message", message)
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a api) discard(w http.ResponseWriter, r *http.Request) {
	if err := a.Sync.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
