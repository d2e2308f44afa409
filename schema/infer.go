package schema

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// TYPE INFERENCE — Numeric vs categorical per column
// ============================================================================
// Inspects every loaded row and classifies each column:
//   1. Missing tokens ("", NA, NaN, null, ...) and non-finite numbers
//      (inf, overflow) are ignored
//   2. Every remaining value parses as a float → numeric (measure)
//   3. Otherwise → categorical (dimension)
//   4. A column with no values at all falls back to its catalog kind
//
// Extra columns are classified the same way and passed through.
// ============================================================================

// missingTokens matches the NA spellings pandas.read_csv recognizes.
var missingTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a trimmed cell value represents a missing value.
// Numbers that are not finite count as missing.
func IsMissing(s string) bool {
	if missingTokens[s] {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		return errors.As(err, &numErr) && numErr.Err == strconv.ErrRange && math.IsInf(f, 0)
	}
	return math.IsInf(f, 0) || math.IsNaN(f)
}

// ParseNumber parses a finite numeric cell. Inference and record parsing
// share it so a column inferred numeric always parses. Underflow rounds to
// zero; overflow, Inf and NaN are rejected.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange || math.IsInf(f, 0) {
			return 0, false
		}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Infer builds a Config from a header and the data rows.
func Infer(name string, headers []string, rows [][]string) (*Config, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
	}

	config := &Config{
		Name:     name,
		RowCount: len(rows),
	}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		config.Fields = append(config.Fields, Field{Key: col.key, Kind: col.kind})

		switch col.kind {
		case Numeric:
			config.Measures = append(config.Measures, col.toMeasure())
		default:
			config.Dimensions = append(config.Dimensions, col.toDimension())
		}
	}

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnAnalysis struct {
	key   string
	index int
	kind  Kind

	uniqueCount  int
	missingCount int
	sampleVals   []string
}

func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		key:   header,
		index: index,
	}

	uniqueSet := make(map[string]bool)
	present, numeric := 0, 0

	for _, row := range rows {
		if index >= len(row) {
			col.missingCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if IsMissing(val) {
			col.missingCount++
			continue
		}
		present++
		if _, ok := ParseNumber(val); ok {
			numeric++
		}
		uniqueSet[val] = true
	}

	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, 10)

	switch {
	case present == 0:
		col.kind = Categorical
		if info, ok := catalog[Column(header)]; ok {
			col.kind = info.kind
		}
	case numeric == present:
		col.kind = Numeric
	default:
		col.kind = Categorical
	}

	return col
}

func (col *columnAnalysis) toDimension() DimensionMeta {
	hint := "high"
	switch {
	case col.uniqueCount <= 10:
		hint = "low"
	case col.uniqueCount <= 100:
		hint = "medium"
	}
	return DimensionMeta{
		Key:             col.key,
		DisplayName:     toDisplayName(col.key),
		SampleValues:    col.sampleVals,
		MissingCount:    col.missingCount,
		CardinalityHint: hint,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:          col.key,
		DisplayName:  toDisplayName(col.key),
		Unit:         Column(col.key).Unit(),
		MissingCount: col.missingCount,
	}
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName cleans a header for human display.
// "model_year" → "Model Year", "price" → "Price"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values, sorted for deterministic output.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
