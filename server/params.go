package server

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/schema"
)

// errBadParam marks a query value that could not be parsed.
var errBadParam = errors.New("invalid parameter")

// Slider range for histogram bins.
const (
	MinBins = 10
	MaxBins = 100
)

// ClampBins pins a positive bin count to MinBins..MaxBins. Zero (server
// default) and negative counts are returned unchanged.
func ClampBins(n int) int {
	switch {
	case n <= 0:
		return n
	case n < MinBins:
		return MinBins
	case n > MaxBins:
		return MaxBins
	}
	return n
}

// ParseCriteria reads price_min, price_max, type and condition.
// Only one price bound leaves the other side open.
func ParseCriteria(q url.Values) (engine.Criteria, error) {
	c := engine.Criteria{
		Type:      strings.TrimSpace(q.Get("type")),
		Condition: strings.TrimSpace(q.Get("condition")),
	}

	min, hasMin, err := floatParam(q, "price_min")
	if err != nil {
		return c, err
	}
	max, hasMax, err := floatParam(q, "price_max")
	if err != nil {
		return c, err
	}

	switch {
	case hasMin && hasMax:
		c.Price = engine.Between(min, max)
	case hasMin:
		c.Price = engine.Between(min, math.Inf(1))
	case hasMax:
		c.Price = engine.Between(math.Inf(-1), max)
	}
	return c, nil
}

// ParseRequest builds an engine.Request, checking column names against the
// catalog before anything runs.
func ParseRequest(kind engine.Kind, q url.Values) (engine.Request, error) {
	criteria, err := ParseCriteria(q)
	if err != nil {
		return engine.Request{}, err
	}
	req := engine.Request{Kind: kind, Criteria: criteria}

	for _, p := range []struct {
		name string
		dst  *string
	}{
		{"column", &req.Column},
		{"x", &req.X},
		{"y", &req.Y},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		col, err := schema.ParseColumn(v)
		if err != nil {
			return req, err
		}
		*p.dst = col.String()
	}

	color, err := schema.ParseGroupColumn(q.Get("color"))
	if err != nil {
		return req, err
	}
	req.Color = color.String()

	bins, err := intParam(q, "bins")
	if err != nil {
		return req, err
	}
	req.Bins = ClampBins(bins)
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func floatParam(q url.Values, name string) (float64, bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return v, true, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return v, nil
}
