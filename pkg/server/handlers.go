package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/output"
	"github.com/ccollicutt/commitlens/pkg/projects"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

var errNotLoaded = errors.New("dataset not loaded")

// parseView reads progress, step, brush and hover from the query string.
func parseView(q url.Values) (controller.View, error) {
	var v controller.View
	if raw := q.Get("progress"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return v, fmt.Errorf("invalid progress %q", raw)
		}
		v.Progress = &p
	}
	if raw := q.Get("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return v, fmt.Errorf("invalid step %q", raw)
		}
		v.Step = &n
	}
	if raw := q.Get("brush"); raw != "" {
		r, err := selection.ParseRegion(raw)
		if err != nil {
			return v, err
		}
		v.Brush = &r
	}
	v.Hover = q.Get("hover")
	return v, nil
}

// report renders the requested view on a fresh dashboard.
func (s *Server) report(r *http.Request) (*output.Report, int, error) {
	ds, list := s.snapshot()
	if ds == nil {
		return nil, http.StatusServiceUnavailable, errNotLoaded
	}

	q := r.URL.Query()
	view, err := parseView(q)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	d, canvas, err := controller.Snapshot(ds, view,
		controller.WithGeometry(controller.Geometry(s.cfg.Render)),
		controller.WithLogger(s.logger))
	if err != nil {
		if errors.Is(err, controller.ErrUnknownCommit) || errors.Is(err, controller.ErrUnknownStep) {
			return nil, http.StatusNotFound, err
		}
		return nil, http.StatusInternalServerError, err
	}

	report := output.NewReport(canvas, output.NewMetadata(ds, d, s.configFile))
	if list != nil {
		b := projects.NewBrowser(list)
		b.Search(q.Get("search"))
		if year := q.Get("year"); year != "" {
			b.SelectYear(year)
		}
		report.WithProjects(b)
	}
	return report, http.StatusOK, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.report(r)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := output.NewHTMLFormatter(output.FormatOptions{}).Format(r.Context(), report, w); err != nil {
		s.logger.Error("rendering dashboard", zap.Error(err))
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.report(r)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := output.NewJSONFormatter(output.FormatOptions{}).Format(r.Context(), report, w); err != nil {
		s.logger.Error("encoding state", zap.Error(err))
	}
}

type healthResponse struct {
	Status   string    `json:"status"`
	Commits  int       `json:"commits"`
	Lines    int       `json:"lines"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	if ds == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Commits:  len(ds.Commits),
		Lines:    len(ds.Records),
		LoadedAt: ds.LoadedAt,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
