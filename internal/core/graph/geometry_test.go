package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Union(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 20}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 25}, u)
	assert.True(t, u.ContainsRect(a))
	assert.True(t, u.ContainsRect(b))
}

func TestRect_Outset(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	o := r.Outset(5)
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 30, Height: 30}, o)
	assert.True(t, o.ContainsRect(r))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Point{X: 5, Y: 5}))
	assert.True(t, r.Contains(Point{X: 0, Y: 10}), "edges are inclusive")
	assert.False(t, r.Contains(Point{X: 11, Y: 5}))
}

func TestRect_ClampRect(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	node := Rect{Width: 20, Height: 10}

	tests := []struct {
		name    string
		desired Point
		want    Point
	}{
		{"inside stays put", Point{X: 30, Y: 30}, Point{X: 30, Y: 30}},
		{"overflow right", Point{X: 95, Y: 30}, Point{X: 80, Y: 30}},
		{"overflow bottom-left", Point{X: -5, Y: 98}, Point{X: 0, Y: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bounds.ClampRect(tt.desired, node)
			assert.Equal(t, tt.want, got)
			assert.True(t, bounds.ContainsRect(Rect{X: got.X, Y: got.Y, Width: node.Width, Height: node.Height}))
		})
	}
}
