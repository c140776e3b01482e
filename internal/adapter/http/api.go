package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/aqi-dashboard/internal/adapter/geojson"
	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	"github.com/couchcryptid/aqi-dashboard/internal/dashboard"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

const maxChangeBody = 4 << 10

// BoundarySource serves county boundary subsets.
type BoundarySource interface {
	ForState(prefix string) geojson.FeatureCollection
	All() geojson.FeatureCollection
}

// TrendRenderer draws a trend figure to an image.
type TrendRenderer interface {
	RenderTrend(fig chart.TrendFigure) ([]byte, error)
}

// API holds the collaborators behind the /api/v1 routes.
type API struct {
	Graph      *dashboard.Graph
	Sessions   *dashboard.SessionStore
	Controls   dashboard.Controls
	Boundaries BoundarySource
	Renderer   TrendRenderer
}

type sessionResponse struct {
	ID        string            `json:"id,omitempty"`
	Selection domain.Selection  `json:"selection"`
	Outputs   dashboard.Outputs `json:"outputs,omitempty"`
}

func (s *Server) handleControls(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.api.Controls)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess, out := s.api.Sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID(),
		Selection: sess.Selection(),
		Outputs:   out,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.api.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID(), Selection: sess.Selection()})
}

func (s *Server) handleApplyChange(w http.ResponseWriter, r *http.Request) {
	sess, err := s.api.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var change dashboard.Change
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChangeBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&change); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode change: %v", err))
		return
	}

	sel, out, err := sess.Apply(r.Context(), change)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrInvalidSelection) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Selection: sel, Outputs: out})
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	sel := domain.Selection{State: r.URL.Query().Get("state")}
	s.writeTarget(w, dashboard.TargetCountyOptions, sel)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	sel, ok := trendSelection(w, r)
	if !ok {
		return
	}
	s.writeTarget(w, dashboard.TargetTrendFigure, sel)
}

func (s *Server) handleTrendPNG(w http.ResponseWriter, r *http.Request) {
	sel, ok := trendSelection(w, r)
	if !ok {
		return
	}
	out, _ := s.api.Graph.EvaluateTarget(dashboard.TargetTrendFigure, sel)
	fig, ok := out.Value.(chart.TrendFigure)
	if out.Err != nil || !ok {
		writeError(w, http.StatusInternalServerError, "trend figure unavailable")
		return
	}

	img, err := s.api.Renderer.RenderTrend(fig)
	if err != nil {
		s.logger.Error("render trend png", "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img) //nolint:errcheck // client may have gone away
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := domain.Selection{State: q.Get("state"), Year: s.api.Controls.Year.Default}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", v))
			return
		}
		sel.Year = year
	}
	s.writeTarget(w, dashboard.TargetMapFigure, sel)
}

func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	switch {
	case state == "":
		writeError(w, http.StatusBadRequest, "state is required")
		return
	case state == domain.NationwideState && s.api.Graph.Env().Nationwide:
		writeJSON(w, http.StatusOK, s.api.Boundaries.All())
		return
	}

	prefix, ok := s.api.Graph.Env().Data.StatePrefix(state)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown state %q", state))
		return
	}
	writeJSON(w, http.StatusOK, s.api.Boundaries.ForState(prefix))
}

func (s *Server) writeTarget(w http.ResponseWriter, target string, sel domain.Selection) {
	out, ok := s.api.Graph.EvaluateTarget(target, sel)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no rule for %s", target))
		return
	}
	if out.Err != nil {
		writeError(w, http.StatusInternalServerError, out.Error)
		return
	}
	writeJSON(w, http.StatusOK, out.Value)
}

func trendSelection(w http.ResponseWriter, r *http.Request) (domain.Selection, bool) {
	q := r.URL.Query()
	group, err := domain.ParsePollutantGroup(q.Get("pollutant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Selection{}, false
	}
	return domain.Selection{
		State:     q.Get("state"),
		County:    q.Get("county"),
		Pollutant: group,
	}, true
}
