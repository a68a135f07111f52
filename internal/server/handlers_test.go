package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/metrics"
	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
	"github.com/claude/overload/internal/volume"
)

var testNow = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

type fakeStore struct {
	sets    []models.Set
	logs    []models.ImportLog
	err     error
	queried [][2]time.Time
}

func (f *fakeStore) AllSets(context.Context) ([]models.Set, error) {
	return f.sets, f.err
}

func (f *fakeStore) QuerySets(_ context.Context, from, to time.Time) ([]models.Set, error) {
	f.queried = append(f.queried, [2]time.Time{from, to})
	return volume.LimitSets(f.sets, from, to), f.err
}

func (f *fakeStore) QueryImportLogs(_ context.Context, limit int) ([]models.ImportLog, error) {
	if limit < len(f.logs) {
		return f.logs[:limit], f.err
	}
	return f.logs, f.err
}

type fakeImporter struct {
	src  ingest.Source
	name string
	body string
	err  error
}

func (f *fakeImporter) Ingest(_ context.Context, src ingest.Source, fileName string, r io.Reader) (*ingest.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.src, f.name, f.body = src, fileName, string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &ingest.Result{Source: src, SetsReceived: 3, SetsAccepted: 2, SetsInserted: 2}, nil
}

func testSet(date, exercise, workout string, weight float64, reps int) models.Set {
	d, err := models.ParseDay(date)
	if err != nil {
		panic(err)
	}
	return models.Set{Date: d, ExerciseName: exercise, WorkoutName: workout, SetMark: "1", Weight: weight, Reps: reps}
}

// testLog is a sorted set log with one progressing, active bench lift and one
// squat that has not been trained for two months.
func testLog() []models.Set {
	return []models.Set{
		testSet("2024-01-02", "Squat (Barbell)", "Legs", 100, 5),
		testSet("2024-02-20", "Bench Press (Barbell)", "Push", 80, 5),
		testSet("2024-02-22", "Bench Press (Barbell)", "Push", 82.5, 5),
		testSet("2024-02-24", "Bench Press (Barbell)", "Push", 85, 5),
		testSet("2024-02-26", "Bench Press (Barbell)", "Push", 87.5, 5),
		testSet("2024-02-28", "Bench Press (Barbell)", "Push", 90, 5),
	}
}

func newTestServer(t *testing.T, store *fakeStore, imp *fakeImporter, m *metrics.Manager) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, imp, Options{
		APIKey:       "secret",
		DefaultWeeks: 4,
		Metrics:      m,
		Now:          func() time.Time { return testNow },
	}, log)
}

func do(t *testing.T, s *Server, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHandleImport verifies the upload is passed through with its source and
// file name, and that the ingest result is returned.
func TestHandleImport(t *testing.T) {
	imp := &fakeImporter{}
	s := newTestServer(t, &fakeStore{}, imp, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/import/strong?filename=strong.csv",
		strings.NewReader("Date,Workout Name\n"), map[string]string{"X-API-Key": "secret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if imp.src != ingest.SourceStrong || imp.name != "strong.csv" || imp.body != "Date,Workout Name\n" {
		t.Errorf("importer got (%q, %q, %q)", imp.src, imp.name, imp.body)
	}
	res := decode[ingest.Result](t, rec)
	if res.SetsInserted != 2 {
		t.Errorf("sets_inserted = %d, want 2", res.SetsInserted)
	}
}

// TestHandleImportErrors verifies auth failures, unknown sources and parser
// errors map to the expected status codes.
func TestHandleImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		key    string
		err    error
		want   int
	}{
		{"missing key", "/api/v1/import/strong", "", nil, http.StatusUnauthorized},
		{"wrong key", "/api/v1/import/strong", "nope", nil, http.StatusForbidden},
		{"unknown source", "/api/v1/import/fitbod", "secret", nil, http.StatusBadRequest},
		{"parse failure", "/api/v1/import/hevy", "secret", errors.New("missing column start_time"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeStore{}, &fakeImporter{err: tt.err}, nil)
			header := map[string]string{}
			if tt.key != "" {
				header["X-API-Key"] = tt.key
			}
			rec := do(t, s, http.MethodPost, tt.target, strings.NewReader("x"), header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestHandleLifts verifies the analyzed lifts, ordered most concerning
// first, and the status filters.
func TestHandleLifts(t *testing.T) {
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Bench Press (Barbell) | Push", "Squat (Barbell) | Legs"}},
		{"?activity=Active", []string{"Bench Press (Barbell) | Push"}},
		{"?activity=History", []string{"Squat (Barbell) | Legs"}},
		{"?status=Progressing", []string{"Bench Press (Barbell) | Push"}},
		{"?status=Regressing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/lifts"+tt.query, nil, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			lifts := decode[[]models.LiftHistory](t, rec)
			got := []string{}
			for _, l := range lifts {
				got = append(got, l.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("lifts = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHandleLiftsInvalidFilter verifies unknown filter values are rejected.
func TestHandleLiftsInvalidFilter(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, &fakeImporter{}, nil)
	for _, q := range []string{"?status=Amazing", "?activity=Dormant"} {
		if rec := do(t, s, http.MethodGet, "/api/v1/lifts"+q, nil, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

// TestHandleLiftsStoreError verifies a storage failure maps to 500.
func TestHandleLiftsStoreError(t *testing.T) {
	s := newTestServer(t, &fakeStore{err: errors.New("connection refused")}, &fakeImporter{}, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/lifts", nil, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if !strings.Contains(body["error"], "connection refused") {
		t.Errorf("error = %q", body["error"])
	}
}

// TestHandleLift verifies a single lift is found by its escaped key.
func TestHandleLift(t *testing.T) {
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/lifts/"+url.PathEscape("Bench Press (Barbell) | Push"), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	lift := decode[models.LiftHistory](t, rec)
	if len(lift.Workouts) != 5 {
		t.Errorf("workouts = %d, want 5", len(lift.Workouts))
	}
	if lift.ProgressStatus != models.Progressing || lift.ActivityStatus != models.Active {
		t.Errorf("status = %s/%s, want Progressing/Active", lift.ProgressStatus, lift.ActivityStatus)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/lifts/"+url.PathEscape("Deadlift | Pull"), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lift status = %d, want 404", rec.Code)
	}
}

// TestHandleVolumeRanges verifies how the query selects the volume period.
func TestHandleVolumeRanges(t *testing.T) {
	tests := []struct {
		query    string
		from, to string
	}{
		{"", "2024-02-03", "2024-03-01"},
		{"?from=2024-02-01&to=2024-02-29", "2024-02-01", "2024-02-29"},
		{"?date=2024-02-28&weeks=1", "2024-02-22", "2024-02-28"},
		{"?date=2024-02-01&weeks=2&direction=after", "2024-02-01", "2024-02-14"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			store := &fakeStore{sets: testLog()}
			s := newTestServer(t, store, &fakeImporter{}, nil)

			rec := do(t, s, http.MethodGet, "/api/v1/volume"+tt.query, nil, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			if len(store.queried) != 1 {
				t.Fatalf("queries = %d, want 1", len(store.queried))
			}
			got := store.queried[0]
			if f := got[0].Format(models.DateLayout); f != tt.from {
				t.Errorf("from = %s, want %s", f, tt.from)
			}
			if to := got[1].Format(models.DateLayout); to != tt.to {
				t.Errorf("to = %s, want %s", to, tt.to)
			}
		})
	}
}

// TestHandleVolume verifies the weekly buckets and attribution of the result.
func TestHandleVolume(t *testing.T) {
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/volume", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	res := decode[volume.Result](t, rec)
	if len(res.Weeks) != 4 {
		t.Fatalf("weeks = %d, want 4", len(res.Weeks))
	}
	if res.Weeks[0].Label != "Week Feb 3, 2024-Feb 9, 2024" {
		t.Errorf("first label = %q", res.Weeks[0].Label)
	}
	attr, ok := res.LiftAttributions["Bench Press (Barbell)"]
	if !ok || !slices.Contains(attr.Primary, muscles.Chest) {
		t.Errorf("bench attribution = %+v", attr)
	}
	if _, ok := res.LiftAttributions["Squat (Barbell)"]; ok {
		t.Error("squat outside the range was attributed")
	}
}

// TestHandleVolumeInvalid verifies malformed range parameters return 400 and
// an inverted range returns an empty result.
func TestHandleVolumeInvalid(t *testing.T) {
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, nil)

	for _, q := range []string{
		"?from=2024-02-01",
		"?from=yesterday&to=2024-02-01",
		"?date=01/02/2024",
		"?weeks=0",
		"?direction=sideways",
	} {
		if rec := do(t, s, http.MethodGet, "/api/v1/volume"+q, nil, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/v1/volume?from=2024-03-01&to=2024-02-01", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("inverted range status = %d, want 200", rec.Code)
	}
	if res := decode[volume.Result](t, rec); len(res.Weeks) != 0 {
		t.Errorf("weeks = %d, want 0", len(res.Weeks))
	}
}

// TestHandleMuscles verifies single-lift attribution, overrides and the
// catalogue returned without a lift.
func TestHandleMuscles(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, &fakeImporter{}, nil)
	s.opts.Overrides = muscles.Overrides{
		"Landmine Press": {Primary: []muscles.Group{muscles.FrontDelts}},
	}

	rec := do(t, s, http.MethodGet, "/api/v1/muscles?lift="+url.QueryEscape("Bench Press (Barbell)"), nil, nil)
	attr := decode[muscles.Attribution](t, rec)
	if !slices.Contains(attr.Primary, muscles.Chest) {
		t.Errorf("bench primary = %v", attr.Primary)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/muscles?lift="+url.QueryEscape("Landmine Press"), nil, nil)
	attr = decode[muscles.Attribution](t, rec)
	if attr.Certainty != 1 || !slices.Equal(attr.Primary, []muscles.Group{muscles.FrontDelts}) {
		t.Errorf("override attribution = %+v", attr)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/muscles", nil, nil)
	catalogue := decode[struct {
		Groups []muscles.Group `json:"groups"`
		Rules  []string        `json:"rules"`
	}](t, rec)
	if len(catalogue.Groups) != len(muscles.All) || len(catalogue.Rules) != len(muscles.Rules) {
		t.Errorf("catalogue = %d groups, %d rules", len(catalogue.Groups), len(catalogue.Rules))
	}
}

// TestHandleSummary verifies the summary combines active lifts and the
// default volume period, and records both analytics runs.
func TestHandleSummary(t *testing.T) {
	m, _ := metrics.NewTestManagerAndRegistry()
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, m)

	rec := do(t, s, http.MethodGet, "/api/v1/summary", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body struct {
		ActiveByStatus map[models.ProgressStatus]int `json:"active_by_status"`
		Lifts          []models.LiftHistory          `json:"lifts"`
		Volume         volume.Result                 `json:"volume"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.ActiveByStatus[models.Progressing] != 1 {
		t.Errorf("active_by_status = %v", body.ActiveByStatus)
	}
	if len(body.Lifts) != 1 || body.Lifts[0].Name != "Bench Press (Barbell) | Push" {
		t.Errorf("lifts = %+v", body.Lifts)
	}
	if len(body.Volume.Weeks) != 4 {
		t.Errorf("volume weeks = %d, want 4", len(body.Volume.Weeks))
	}
	if n := testutil.CollectAndCount(m.HistAnalysisDuration); n != 2 {
		t.Errorf("analysis series = %d, want 2", n)
	}
}

// TestHandleSummaryStoreError verifies a failing query fails the summary.
func TestHandleSummaryStoreError(t *testing.T) {
	s := newTestServer(t, &fakeStore{err: errors.New("timeout")}, &fakeImporter{}, nil)
	if rec := do(t, s, http.MethodGet, "/api/v1/summary", nil, nil); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// TestHandleImportLogs verifies the limit parameter.
func TestHandleImportLogs(t *testing.T) {
	store := &fakeStore{logs: []models.ImportLog{
		{ID: 3, Source: "strong", Status: "success"},
		{ID: 2, Source: "hevy", Status: "error"},
		{ID: 1, Source: "strong", Status: "success"},
	}}
	s := newTestServer(t, store, &fakeImporter{}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/import-logs?limit=2", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if logs := decode[[]models.ImportLog](t, rec); len(logs) != 2 || logs[0].ID != 3 {
		t.Errorf("logs = %+v", logs)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/import-logs?limit=-1", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d, want 400", rec.Code)
	}
}

// TestParseStatusFilters verifies every defined status is accepted.
func TestParseStatusFilters(t *testing.T) {
	for _, p := range models.ProgressStatuses {
		q := url.Values{"status": {string(p)}}
		if got, _, err := parseStatusFilters(q); err != nil || got != p {
			t.Errorf("status %q: got %q, %v", p, got, err)
		}
	}
}

// TestHandleSets verifies the raw log endpoint with and without a range.
func TestHandleSets(t *testing.T) {
	s := newTestServer(t, &fakeStore{sets: testLog()}, &fakeImporter{}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/sets", nil, nil)
	if sets := decode[[]models.Set](t, rec); len(sets) != 6 {
		t.Errorf("all sets = %d, want 6", len(sets))
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sets?from=2024-02-21&to=2024-02-25", nil, nil)
	if sets := decode[[]models.Set](t, rec); len(sets) != 2 {
		t.Errorf("ranged sets = %d, want 2", len(sets))
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sets?from=2024-02-21", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("half range status = %d, want 400", rec.Code)
	}
}

// TestSetMCP verifies a mounted MCP handler receives /mcp requests.
func TestSetMCP(t *testing.T) {
	s := newTestServer(t, &fakeStore{}, &fakeImporter{}, nil)
	s.SetMCP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	if rec := do(t, s, http.MethodPost, "/mcp", strings.NewReader("{}"), nil); rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}
