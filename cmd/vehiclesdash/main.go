package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/spektr-org/vehiclesdash/config"
	"github.com/spektr-org/vehiclesdash/dataset"
	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/helpers"
	"github.com/spektr-org/vehiclesdash/render"
	"github.com/spektr-org/vehiclesdash/server"
	"github.com/spektr-org/vehiclesdash/storage"
	"github.com/spektr-org/vehiclesdash/utils"
)

// ============================================================================
// VEHICLESDASH CLI — Used-vehicle listings dashboard
// ============================================================================

const version = "0.1.0"

func main() {
	cfg := config.Load()

	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", cfg.DataPath, "Path to the listings CSV")
	serve := flag.Bool("serve", false, "Start the HTTP dashboard API")
	addr := flag.String("addr", cfg.HTTPAddr, "Listen address for --serve")
	kind := flag.String("kind", "overview", "Output: overview, histogram, scatter, bar, stats, data, export")
	column := flag.String("column", "", "Column for histogram / bar")
	xCol := flag.String("x", "", "Scatter X column")
	yCol := flag.String("y", "", "Scatter Y column")
	color := flag.String("color", "", "Scatter color column (or none)")
	bins := flag.Int("bins", cfg.DefaultBins, "Histogram bins")
	limit := flag.Int("limit", cfg.MaxTableRows, "Data table row cap (0 = all)")
	priceMin := flag.String("price-min", "", "Lowest price to include")
	priceMax := flag.String("price-max", "", "Highest price to include")
	vehicleType := flag.String("type", engine.All, "Vehicle type filter")
	condition := flag.String("condition", engine.All, "Condition filter")
	format := flag.String("format", "json", "Output format: json, pretty, csv, png")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	persist := flag.Bool("pg", false, "Store the filtered listings in PostgreSQL and query the stored rows")
	debug := flag.Bool("debug", cfg.Debug, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `vehiclesdash: used-vehicle listings dashboard

Usage:
  vehiclesdash --kind bar --column type --condition good --format pretty
  vehiclesdash --kind histogram --column price --bins 40 --format png --out price.png
  vehiclesdash --kind export --price-min 5000 --price-max 20000 --out vehiculos_filtrados.csv
  vehiclesdash --serve --addr :8080

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment (.env is read if present):
  DATA_PATH, HTTP_ADDR, DEFAULT_BINS, MAX_TABLE_ROWS, CHART_WIDTH, CHART_HEIGHT
  POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB, POSTGRES_SSLMODE

Formats:
  json      Result JSON (default)
  pretty    Pretty-printed JSON
  csv       Chart or table data as CSV
  png       Rendered chart image (histogram, scatter, bar)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("vehiclesdash %s\n", version)
		os.Exit(0)
	}

	logger := utils.NewLogger()
	logger.SetDebug(*debug)
	cache := dataset.NewCache(logger)

	// ── Serve mode ────────────────────────────────────────────────────────
	if *serve {
		srv := server.New(server.Options{
			DataPath:     *filePath,
			DefaultBins:  *bins,
			MaxTableRows: *limit,
			ChartSize:    render.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		}, cache, logger)
		if err := srv.ListenAndServe(*addr); err != nil {
			fatalf("Server stopped: %v", err)
		}
		return
	}

	// ── Load ──────────────────────────────────────────────────────────────
	table, err := cache.GetOrLoad(*filePath)
	if errors.Is(err, dataset.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Dataset not found at %s. Set --file or DATA_PATH to the listings CSV.\n", *filePath)
		os.Exit(1)
	}
	if err != nil {
		fatalf("Failed to load dataset: %v", err)
	}

	q := url.Values{
		"price_min": {*priceMin},
		"price_max": {*priceMax},
		"type":      {*vehicleType},
		"condition": {*condition},
		"column":    {*column},
		"x":         {*xCol},
		"y":         {*yCol},
		"color":     {*color},
		"bins":      {strconv.Itoa(*bins)},
	}
	criteria, err := server.ParseCriteria(q)
	if err != nil {
		fatalf("%v", err)
	}

	var source engine.RecordView = table

	if *persist {
		pw, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pw.Close()
		stored, err := storage.Persist(pw, engine.Apply(table, criteria))
		if err != nil {
			fatalf("Failed to store listings: %v", err)
		}
		logger.Info("stored %d listings in PostgreSQL", stored.Len())
		source = stored
	}

	// ── Export mode ───────────────────────────────────────────────────────
	if *kind == "export" {
		exportView := engine.Apply(source, criteria)
		if *outFile == "" {
			if err := helpers.WriteCSV(os.Stdout, exportView); err != nil {
				fatalf("Export failed: %v", err)
			}
			return
		}
		cw, err := storage.NewCSVWriter(*outFile)
		if err != nil {
			fatalf("Export failed: %v", err)
		}
		defer cw.Close()
		if err := cw.Write(exportView); err != nil {
			fatalf("Export failed: %v", err)
		}
		log.Printf("📄 %d listings written to %s", exportView.Len(), *outFile)
		return
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Query mode ────────────────────────────────────────────────────────
	reqKind, err := engine.ParseKind(*kind)
	if err != nil {
		fatalf("%v", err)
	}
	req, err := server.ParseRequest(reqKind, q)
	if err != nil {
		fatalf("%v", err)
	}

	result, err := engine.Execute(req, source,
		engine.WithDefaultBins(cfg.DefaultBins),
		engine.WithRowLimit(*limit),
	)
	if err != nil {
		fatalf("Execution failed: %v", err)
	}

	// ── Render output ─────────────────────────────────────────────────────
	switch *format {
	case "png":
		size := render.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
		if err := render.PNG(writer, result.ChartConfig, size); err != nil {
			fatalf("Render failed: %v", err)
		}
	case "csv":
		writeCSV(writer, result)
		if *outFile != "" {
			log.Printf("📄 CSV written to %s", *outFile)
		}
	default:
		writeJSON(writer, result, *format)
	}
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

func writeCSV(w io.Writer, result *engine.Result) {
	var rows [][]string

	switch {
	case result.ChartConfig != nil:
		rows = chartRows(result.ChartConfig)
	case result.TableData != nil:
		rows = tableRows(result.TableData)
	case result.Overview != nil:
		rows = [][]string{{"Metric", "Value"}}
		for _, m := range result.Overview.Metrics {
			rows = append(rows, []string{m.Label, m.Value})
		}
	}

	if err := helpers.WriteRows(w, rows); err != nil {
		fatalf("Failed to write CSV: %v", err)
	}
}

func chartRows(chart *engine.ChartConfig) [][]string {
	if chart.ChartType == "scatter" {
		rows := [][]string{{chart.XAxis, chart.YAxis, "Series"}}
		for _, s := range chart.Series {
			for _, p := range s.Data {
				rows = append(rows, []string{fmtNum(p.X), fmtNum(p.Value), s.Name})
			}
		}
		return rows
	}

	rows := [][]string{{chart.XAxis, chart.YAxis}}
	for _, s := range chart.Series {
		for _, p := range s.Data {
			rows = append(rows, []string{p.Label, fmtNum(p.Value)})
		}
	}
	return rows
}

func tableRows(table *engine.TableData) [][]string {
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
		if header[i] == "" {
			header[i] = c.Key
		}
	}
	return append([][]string{header}, table.Rows...)
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	return engine.FormatMeasure(engine.RoundTo2(v))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
