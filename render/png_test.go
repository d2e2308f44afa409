package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vehiclesdash/engine"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestPNGHistogram(t *testing.T) {
	cfg := engine.BuildHistogramChart("price", []engine.Bin{
		{Lower: 0, Upper: 10, Count: 2},
		{Lower: 10, Upper: 20, Count: 5},
		{Lower: 20, Upper: 30, Count: 0},
	})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, cfg, Size{Width: 640, Height: 360}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGBar(t *testing.T) {
	cfg := engine.BuildBarChart("type", []engine.Group{
		{Key: "sedan", Label: "sedan", Count: 3},
		{Key: "SUV", Label: "SUV", Count: 1},
	})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, cfg, Size{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGScatterSinglePoint(t *testing.T) {
	cfg := engine.BuildScatterChart("price", "odometer", "condition", []engine.ScatterPoint{
		{X: 9400, Y: 145000, Group: "good"},
	})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, cfg, Size{Width: 640, Height: 360}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGScatterGroups(t *testing.T) {
	cfg := engine.BuildScatterChart("price", "odometer", "type", []engine.ScatterPoint{
		{X: 9400, Y: 145000, Group: "SUV"},
		{X: 5500, Y: 110000, Group: "sedan"},
		{X: 14900, Y: 80903, Group: "sedan"},
		{X: 9200, Y: 147191},
	})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, cfg, Size{Width: 640, Height: 360}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPNGNothingToRender(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, PNG(&buf, nil, Size{}), ErrNothingToRender)
	assert.ErrorIs(t, PNG(&buf, engine.BuildBarChart("type", nil), Size{}), ErrNothingToRender)
	assert.ErrorIs(t, PNG(&buf, engine.BuildScatterChart("price", "odometer", "", nil), Size{}), ErrNothingToRender)
	assert.Zero(t, buf.Len())
}

func TestPadded(t *testing.T) {
	r := padded(5, 5)
	assert.Less(t, r.Min, 5.0)
	assert.Greater(t, r.Max, 5.0)

	r = padded(0, 100)
	assert.Equal(t, -5.0, r.Min)
	assert.Equal(t, 105.0, r.Max)
}
