package tzindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToPixel(t *testing.T) {
	cases := []struct {
		lat, lon float64
		x, y     int
	}{
		{0, 0, 5760, 2880},
		{37.7833, -122.4167, 1842, 1670},
		{-33.79, 151.17, 10597, 3961},
		{90, -180, 0, 0},
		{-90, 180, Width - 1, Height - 1},
		{90, 180, Width - 1, 0},
		{-90, -180, 0, Height - 1},
	}
	for _, tc := range cases {
		x, y := ToPixel(tc.lat, tc.lon)
		require.Equal(t, tc.x, x, "x for (%v,%v)", tc.lat, tc.lon)
		require.Equal(t, tc.y, y, "y for (%v,%v)", tc.lat, tc.lon)
	}
}

func TestToPixelPanicsOutOfRange(t *testing.T) {
	for _, c := range [][2]float64{{90.0001, 0}, {-91, 0}, {0, 180.5}, {0, -181}, {math.NaN(), 0}, {0, math.NaN()}} {
		require.Panics(t, func() { ToPixel(c[0], c[1]) })
	}
}

func TestCheckCoord(t *testing.T) {
	require.NoError(t, CheckCoord(-90, 180))
	require.ErrorIs(t, CheckCoord(100, 0), ErrCoordOutOfRange)
	require.ErrorIs(t, CheckCoord(0, math.Inf(1)), ErrCoordOutOfRange)
}
