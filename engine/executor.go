package engine

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// EXECUTOR — Request dispatcher
// ============================================================================
// Entry point: Execute(req, table, opts...)
//
// Pipeline:
//   1. Apply Criteria → SubView (zero-copy)
//   2. Run the adapter the request names (histogram / scatter / bar / stats)
//   3. Dispatch to builder (chart / table / overview)
//   4. Return Result
//
// Every request recomputes from the full table; nothing is cached here.
// ============================================================================

// Kind selects what a Request produces.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindStats     Kind = "stats"
	KindData      Kind = "data"
	KindOverview  Kind = "overview"
)

// ErrUnknownKind is returned for a request kind the engine doesn't produce.
var ErrUnknownKind = errors.New("unknown request kind")

// ParseKind validates a request kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindHistogram, KindScatter, KindBar, KindStats, KindData, KindOverview:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Request is one dashboard computation, built from plain surface values.
type Request struct {
	Kind     Kind     `json:"kind"`
	Criteria Criteria `json:"-"`
	Column   string   `json:"column,omitempty"` // histogram / bar column
	X        string   `json:"x,omitempty"`
	Y        string   `json:"y,omitempty"`
	Color    string   `json:"color,omitempty"` // scatter grouping, "" = none
	Bins     int      `json:"bins,omitempty"`
	Limit    int      `json:"limit,omitempty"` // data table rows, 0 = option default
}

// withDefaults fills the selector defaults of each tab.
func (r Request) withDefaults(cfg *config) Request {
	switch r.Kind {
	case KindHistogram:
		if r.Column == "" {
			r.Column = string(schema.HistogramColumns[0])
		}
		if r.Bins == 0 {
			r.Bins = cfg.DefaultBins
		}
	case KindScatter:
		if r.X == "" {
			r.X = string(schema.ScatterXColumns[0])
		}
		if r.Y == "" {
			r.Y = string(schema.ScatterYColumns[0])
		}
		if strings.EqualFold(r.Color, schema.None) {
			r.Color = ""
		}
	case KindBar:
		if r.Column == "" {
			r.Column = string(schema.BarColumns[0])
		}
	case KindData:
		if r.Limit == 0 {
			r.Limit = cfg.RowLimit
		}
	}
	return r
}

// Execute runs a Request against the loaded table and returns a render-ready Result.
func Execute(req Request, table RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	req = req.withDefaults(cfg)

	// 1. Apply filters → SubView (zero-copy)
	filtered := Apply(table, req.Criteria)

	log.Printf("🔧 vehiclesdash: kind=%s, %d of %d listings after filtering",
		req.Kind, filtered.Len(), table.Len())

	result := &Result{
		Success: true,
		Reply:   MatchedReply(filtered.Len()),
		Matched: filtered.Len(),
		Total:   table.Len(),
	}

	// 2–3. Adapter + builder
	switch req.Kind {
	case KindHistogram:
		bins, err := Histogram(filtered, req.Column, req.Bins)
		if err != nil {
			return nil, err
		}
		result.Type = "chart"
		result.ChartConfig = BuildHistogramChart(req.Column, bins)

	case KindScatter:
		points, err := Scatter(filtered, req.X, req.Y, req.Color)
		if err != nil {
			return nil, err
		}
		result.Type = "chart"
		result.ChartConfig = BuildScatterChart(req.X, req.Y, req.Color, points)

	case KindBar:
		groups, err := Frequency(filtered, req.Column)
		if err != nil {
			return nil, err
		}
		result.Type = "chart"
		result.ChartConfig = BuildBarChart(req.Column, groups)

	case KindStats:
		result.Type = "table"
		result.TableData = BuildStatsTable(Describe(filtered))

	case KindData:
		result.Type = "table"
		result.TableData = BuildDataTable(filtered, req.Limit)

	case KindOverview:
		result.Type = "overview"
		result.Overview = BuildOverview(table, filtered)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}

	switch {
	case result.ChartConfig != nil:
		result.Title = result.ChartConfig.Title
	case result.TableData != nil:
		result.Title = result.TableData.Title
	default:
		result.Title = "Dashboard de Análisis de Vehículos"
	}

	if filtered.Len() == 0 {
		log.Printf("📭 vehiclesdash: no listings match %+v", req.Criteria)
	}

	return result, nil
}
