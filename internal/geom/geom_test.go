package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/overlayd/internal/geom"
)

func TestRect_Contains(t *testing.T) {
	t.Parallel()

	r := geom.Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name     string
		point    geom.Point
		expected bool
	}{
		{name: "top left corner", point: geom.Point{X: 10, Y: 20}, expected: true},
		{name: "bottom right corner", point: geom.Point{X: 110, Y: 70}, expected: true},
		{name: "center", point: geom.Point{X: 60, Y: 45}, expected: true},
		{name: "left of rect", point: geom.Point{X: 9, Y: 45}, expected: false},
		{name: "below rect", point: geom.Point{X: 60, Y: 71}, expected: false},
		{name: "negative point", point: geom.Point{X: -5, Y: -5}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, r.Contains(tt.point))
		})
	}
}

func TestRect_ContainsNegativeOrigin(t *testing.T) {
	t.Parallel()

	r := geom.Rect{X: -50, Y: -50, Width: 40, Height: 40}
	assert.True(t, r.Contains(geom.Point{X: -30, Y: -20}))
	assert.False(t, r.Contains(geom.Point{X: 0, Y: 0}))
}

func TestRect_Local(t *testing.T) {
	t.Parallel()

	r := geom.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	assert.Equal(t, geom.Point{X: 5, Y: 7}, r.Local(geom.Point{X: 15, Y: 27}))
}

func TestRect_SameSizeAndBufferSize(t *testing.T) {
	t.Parallel()

	a := geom.Rect{X: 0, Y: 0, Width: 4, Height: 3}
	b := geom.Rect{X: 9, Y: 9, Width: 4, Height: 3}

	assert.True(t, a.SameSize(b))
	assert.False(t, a.SameSize(geom.Rect{Width: 3, Height: 4}))
	assert.Equal(t, 48, a.BufferSize())
	assert.True(t, geom.Rect{Width: 0, Height: 10}.Empty())
}

func TestColor_RoundTrip(t *testing.T) {
	t.Parallel()

	c := geom.ColorFromRGB(0x123456)
	assert.Equal(t, geom.Color{R: 0x12, G: 0x34, B: 0x56}, c)
	assert.Equal(t, uint32(0x123456), c.RGB())
	assert.Equal(t, "#123456", c.String())
}

func TestFillBuffer(t *testing.T) {
	t.Parallel()

	buf := geom.FillBuffer(geom.Rect{Width: 2, Height: 1}, geom.Color{R: 1, G: 2, B: 3}, 200)
	assert.Equal(t, []byte{3, 2, 1, 200, 3, 2, 1, 200}, buf)
}
