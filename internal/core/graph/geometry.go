// Package graph provides geometry primitives for node positions and group bounds
package graph

// Point is a 2D position on the editor canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the point translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsZero reports whether the rectangle is the zero value.
func (r Rect) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.Width == 0 && r.Height == 0
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ContainsRect reports whether o lies fully inside the rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() && o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Outset grows the rectangle by pad on every side.
func (r Rect) Outset(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Clamp returns the nearest point to p that lies inside the rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: min(max(p.X, r.X), r.Right()),
		Y: min(max(p.Y, r.Y), r.Bottom()),
	}
}

// ClampRect returns the position nearest to pos at which a rectangle of o's
// size still fits inside r. When o is larger than r it is anchored at r's origin.
func (r Rect) ClampRect(pos Point, o Rect) Point {
	maxX := r.Right() - o.Width
	maxY := r.Bottom() - o.Height
	x := pos.X
	y := pos.Y
	if x > maxX {
		x = maxX
	}
	if x < r.X {
		x = r.X
	}
	if y > maxY {
		y = maxY
	}
	if y < r.Y {
		y = r.Y
	}
	return Point{X: x, Y: y}
}
