package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spektr-org/vehiclesdash/dataset"
	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/helpers"
	"github.com/spektr-org/vehiclesdash/render"
	"github.com/spektr-org/vehiclesdash/schema"
	"github.com/spektr-org/vehiclesdash/utils"
)

// ============================================================================
// HTTP SURFACE — JSON, PNG and CSV endpoints over the engine
// ============================================================================
// Every request reads the table through the cache and recomputes from
// scratch. Inputs are plain query values; see ParseCriteria and
// ParseRequest for the accepted names.
// ============================================================================

// Options configures a Server.
type Options struct {
	DataPath     string
	DefaultBins  int
	MaxTableRows int
	ChartSize    render.Size
}

// Server serves the dashboard API.
type Server struct {
	opts  Options
	cache *dataset.Cache
	log   *utils.Logger
	mux   *http.ServeMux
}

// New creates a Server reading opts.DataPath through cache.
func New(opts Options, cache *dataset.Cache, logger *utils.Logger) *Server {
	if logger == nil {
		logger = utils.Discard()
	}
	s := &Server{opts: opts, cache: cache, log: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/options", s.handleOptions)
	s.mux.HandleFunc("/api/overview", s.handleKind(engine.KindOverview))
	s.mux.HandleFunc("/api/chart/", s.handleChart)
	s.mux.HandleFunc("/api/stats", s.handleKind(engine.KindStats))
	s.mux.HandleFunc("/api/data", s.handleKind(engine.KindData))
	s.mux.HandleFunc("/api/export", s.handleExport)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(rec, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	} else {
		s.mux.ServeHTTP(rec, r)
	}

	s.log.Info("%s %s → %d (%s)", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond))
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("serving %s on %s", s.opts.DataPath, addr)
	return srv.ListenAndServe()
}

// ============================================================================
// HANDLERS
// ============================================================================

type optionsResponse struct {
	Dataset          string          `json:"dataset"`
	Dimensions       []string        `json:"dimensions"`
	Measures         []string        `json:"measures"`
	Types            []string        `json:"types"`
	Conditions       []string        `json:"conditions"`
	Price            *priceBounds    `json:"price,omitempty"`
	HistogramColumns []schema.Column `json:"histogramColumns"`
	ScatterX         []schema.Column `json:"scatterX"`
	ScatterY         []schema.Column `json:"scatterY"`
	ColorColumns     []string        `json:"colorColumns"`
	BarColumns       []schema.Column `json:"barColumns"`
	Total            int             `json:"total"`
}

type priceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w)
	if !ok {
		return
	}

	types, err := engine.FilterOptions(table, string(schema.Type))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	conditions, err := engine.FilterOptions(table, string(schema.Condition))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	meta := table.Schema()
	resp := optionsResponse{
		Dataset:          meta.Name,
		Dimensions:       meta.DimensionKeys(),
		Measures:         meta.MeasureKeys(),
		Types:            append([]string{engine.All}, types...),
		Conditions:       append([]string{engine.All}, conditions...),
		HistogramColumns: schema.HistogramColumns,
		ScatterX:         schema.ScatterXColumns,
		ScatterY:         schema.ScatterYColumns,
		ColorColumns:     []string{schema.None},
		BarColumns:       schema.BarColumns,
		Total:            table.Len(),
	}
	for _, c := range schema.ColorColumns {
		resp.ColorColumns = append(resp.ColorColumns, c.String())
	}
	if min, max, ok := engine.PriceBounds(table); ok {
		resp.Price = &priceBounds{Min: min, Max: max}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKind(kind engine.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.execute(w, r, kind)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := engine.ParseKind(strings.TrimPrefix(r.URL.Path, "/api/chart/"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	switch kind {
	case engine.KindHistogram, engine.KindScatter, engine.KindBar:
	default:
		writeError(w, http.StatusNotFound, errors.New("not a chart kind: "+string(kind)))
		return
	}

	if r.URL.Query().Get("format") != "png" {
		s.execute(w, r, kind)
		return
	}

	result, ok := s.run(w, r, kind)
	if !ok {
		return
	}
	var buf bytes.Buffer
	err = render.PNG(&buf, result.ChartConfig, s.opts.ChartSize)
	switch {
	case errors.Is(err, render.ErrNothingToRender):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		s.log.Error("png render failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
	default:
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	table, ok := s.table(w)
	if !ok {
		return
	}

	filtered := engine.Apply(table, criteria)
	w.Header().Set("Content-Type", helpers.ExportMIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+helpers.ExportFileName+`"`)
	if err := helpers.WriteCSV(w, filtered); err != nil {
		s.log.Error("export failed after %d rows: %v", filtered.Len(), err)
	}
}

// ============================================================================
// PLUMBING
// ============================================================================

func (s *Server) execute(w http.ResponseWriter, r *http.Request, kind engine.Kind) {
	result, ok := s.run(w, r, kind)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// run parses the request, loads the table and executes it. On failure the
// error response is already written.
func (s *Server) run(w http.ResponseWriter, r *http.Request, kind engine.Kind) (*engine.Result, bool) {
	req, err := ParseRequest(kind, r.URL.Query())
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	table, ok := s.table(w)
	if !ok {
		return nil, false
	}

	result, err := engine.Execute(req, table,
		engine.WithDefaultBins(s.opts.DefaultBins),
		engine.WithRowLimit(s.opts.MaxTableRows),
	)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return result, true
}

func (s *Server) table(w http.ResponseWriter) (*engine.Table, bool) {
	table, err := s.cache.GetOrLoad(s.opts.DataPath)
	if err != nil {
		if !errors.Is(err, dataset.ErrNotFound) {
			s.log.Error("dataset load failed: %v", err)
		}
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return table, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, schema.ErrUnknownColumn),
		errors.Is(err, engine.ErrNotNumeric),
		errors.Is(err, engine.ErrNotCategorical),
		errors.Is(err, engine.ErrInvalidBins),
		errors.Is(err, errBadParam):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnknownKind):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON encodes v before touching w, so an encoding failure still
// produces a well-formed 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
