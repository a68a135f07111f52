package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
	"github.com/claude/overload/internal/volume"
)

// maxUploadSize caps an uploaded export file.
const maxUploadSize = 64 << 20

const defaultImportLogLimit = 20

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	src, ok := ingest.ParseSource(chi.URLParam(r, "source"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown source %q", chi.URLParam(r, "source"))})
		return
	}

	fileName := r.URL.Query().Get("filename")
	body := http.MaxBytesReader(w, r.Body, maxUploadSize)

	result, err := s.importer.Ingest(r.Context(), src, fileName, body)
	if err != nil {
		s.log.Error("import error", "source", src, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSets returns the stored log, optionally limited to a from/to range.
func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		sets []models.Set
		err  error
	)
	if q.Get("from") == "" && q.Get("to") == "" {
		sets, err = s.store.AllSets(r.Context())
	} else {
		from, ferr := models.ParseDay(q.Get("from"))
		to, terr := models.ParseDay(q.Get("to"))
		if ferr != nil || terr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from and to must both be YYYY-MM-DD dates"})
			return
		}
		sets, err = s.store.QuerySets(r.Context(), from, to)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sets == nil {
		sets = []models.Set{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleLifts(w http.ResponseWriter, r *http.Request) {
	progress, activity, err := parseStatusFilters(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	lifts, err := s.lifts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analysis.Filter(lifts, progress, activity))
}

func (s *Server) handleLift(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lift name"})
		return
	}

	lifts, err := s.lifts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	lift, ok := analysis.Find(lifts, name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lift not found"})
		return
	}
	writeJSON(w, http.StatusOK, lift)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseVolumeRange(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.volume(r.Context(), from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	lift := r.URL.Query().Get("lift")
	if lift != "" {
		writeJSON(w, http.StatusOK, muscles.NewMemo(s.opts.Overrides).Get(lift))
		return
	}

	rules := make([]string, len(muscles.Rules))
	for i, rule := range muscles.Rules {
		rules[i] = rule.Label
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups": muscles.All,
		"rules":  rules,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, to := volume.PeriodRange(s.opts.Now(), s.opts.DefaultWeeks, volume.Before)

	var (
		lifts []models.LiftHistory
		vol   volume.Result
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		lifts, err = s.lifts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vol, err = s.volume(ctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	counts := make(map[models.ProgressStatus]int)
	for _, l := range lifts {
		if l.ActivityStatus == models.Active {
			counts[l.ProgressStatus]++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active_by_status": counts,
		"lifts":            analysis.Filter(lifts, "", models.Active),
		"volume":           vol,
	})
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultImportLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	logs, err := s.store.QueryImportLogs(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// lifts loads every stored set and runs the progressive-overload pipeline.
func (s *Server) lifts(ctx context.Context) ([]models.LiftHistory, error) {
	sets, err := s.store.AllSets(ctx)
	if err != nil {
		s.log.Error("loading sets", "error", err)
		return nil, fmt.Errorf("loading sets: %w", err)
	}
	start := time.Now()
	lifts := analysis.AnalyzeProgressiveOverload(sets, s.analysisOptions())
	s.opts.Metrics.ObserveAnalysis("lifts", start)
	return lifts, nil
}

func (s *Server) volume(ctx context.Context, from, to time.Time) (volume.Result, error) {
	sets, err := s.store.QuerySets(ctx, from, to)
	if err != nil {
		s.log.Error("loading sets", "from", from, "to", to, "error", err)
		return volume.Result{}, fmt.Errorf("loading sets: %w", err)
	}
	start := time.Now()
	res := volume.Calculate(sets, from, to, s.opts.Overrides)
	s.opts.Metrics.ObserveAnalysis("volume", start)
	return res, nil
}

func parseStatusFilters(q url.Values) (models.ProgressStatus, models.ActivityStatus, error) {
	return analysis.ParseFilters(q.Get("status"), q.Get("activity"))
}

// parseVolumeRange reads either an explicit from/to pair or a period picked
// by date, weeks and direction. With no parameters the period ends today.
func (s *Server) parseVolumeRange(q url.Values) (from, to time.Time, err error) {
	rq := volume.RangeQuery{
		From:      q.Get("from"),
		To:        q.Get("to"),
		Date:      q.Get("date"),
		Direction: q.Get("direction"),
	}
	if v := q.Get("weeks"); v != "" {
		if rq.Weeks, err = strconv.Atoi(v); err != nil || rq.Weeks < 1 {
			return time.Time{}, time.Time{}, errors.New("weeks must be a positive integer")
		}
	}
	return rq.Resolve(s.opts.Now(), s.opts.DefaultWeeks)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
