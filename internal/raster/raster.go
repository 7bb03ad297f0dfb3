// seehuhn.de/go/svgrender - path attributes and raster tile caching
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster converts vector paths into anti-aliased coverage tiles.
//
// The output of every operation is an [image.Alpha] whose bounds are the
// integer-aligned device-space bounding box of the painted area. Tiles are
// meant to be cached and composited later; the package never touches a
// destination image.
package raster

import (
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const (
	defaultFlatness   = 0.25
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the minimum |dy| for an edge to contribute
	// coverage.
	horizontalEdgeThreshold = 1e-12
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

// subpath is a flattened subpath in user space. Consecutive points are
// distinct. Closed subpaths repeat their first point at the end.
type subpath struct {
	pts    []vec.Vec2
	closed bool
}

// Rasterizer produces coverage tiles. Create one instance and reuse it;
// internal buffers grow as needed and are kept between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.
	CTM matrix.Matrix

	// Clip limits the tile to this device rectangle. The zero value means
	// no clipping.
	Clip rect.Rect

	// Flatness is the maximal curve approximation error in device pixels.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash holds alternating on/off lengths in user space units. Nil means
	// solid.
	Dash      []float64
	DashPhase float64

	edges    []edge
	subpaths []subpath
	pool     []vec.Vec2 // backing storage for subpaths
	polys    [][]vec.Vec2
	cover    []float32
	area     []float32

	bboxEmpty    bool
	bxMin, bxMax float64
	byMin, byMax float64
}

// New returns a Rasterizer with the identity transform and default stroke
// parameters.
func New() *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// Fill returns the coverage of the filled path. Open subpaths are closed
// implicitly. The result is nil if nothing is covered.
func (r *Rasterizer) Fill(p path.Path, evenOdd bool) *image.Alpha {
	r.flatten(p)
	r.resetEdges()
	for _, sp := range r.subpaths {
		pts := sp.pts
		for i := 1; i < len(pts); i++ {
			r.addEdge(pts[i-1], pts[i])
		}
		if !sp.closed && len(pts) > 2 {
			r.addEdge(pts[len(pts)-1], pts[0])
		}
	}
	return r.render(evenOdd)
}

// transform maps a user space point to device space.
func (r *Rasterizer) transform(p vec.Vec2) vec.Vec2 {
	x, y := r.CTM.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// transformLinear applies only the 2×2 linear part of the CTM.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// deviceScale estimates how many device pixels one user space unit covers.
func (r *Rasterizer) deviceScale() float64 {
	return math.Sqrt(math.Abs(r.CTM[0]*r.CTM[3] - r.CTM[1]*r.CTM[2]))
}

// flatten walks the path and fills r.subpaths with line segments.
// Curves are split using the device space error bound.
func (r *Rasterizer) flatten(p path.Path) {
	r.subpaths = r.subpaths[:0]
	r.pool = r.pool[:0]

	start := -1 // index into r.pool of the current subpath, or -1
	drew := false
	var current, first vec.Vec2

	push := func(pt vec.Vec2) {
		if n := len(r.pool); n > start && r.pool[n-1] == pt {
			return
		}
		r.pool = append(r.pool, pt)
	}
	finish := func(closed bool) {
		if start < 0 {
			return
		}
		if !drew {
			// a lone move-to paints nothing
			r.pool = r.pool[:start]
			start = -1
			return
		}
		if closed && r.pool[len(r.pool)-1] != first {
			r.pool = append(r.pool, first)
		}
		r.subpaths = append(r.subpaths, subpath{
			pts:    r.pool[start:len(r.pool):len(r.pool)],
			closed: closed,
		})
		start = -1
	}
	begin := func(pt vec.Vec2) {
		if start < 0 {
			start = len(r.pool)
			r.pool = append(r.pool, pt)
			first = pt
			drew = false
		}
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			current = pts[0]
			begin(current)
		case path.CmdLineTo:
			begin(current)
			drew = true
			push(pts[0])
			current = pts[0]
		case path.CmdQuadTo:
			begin(current)
			drew = true
			r.flattenQuadratic(current, pts[0], pts[1], push)
			current = pts[1]
		case path.CmdCubeTo:
			begin(current)
			drew = true
			r.flattenCubic(current, pts[0], pts[1], pts[2], push)
			current = pts[2]
		case path.CmdClose:
			finish(true)
			current = first
		}
	}
	finish(false)
}

// flattenQuadratic emits the end points of the line segments approximating
// a quadratic Bézier curve from p0 to p2.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	n := 1
	if errDev := r.transformLinear(e).Length(); errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		emit(p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic emits the end points of the line segments approximating a
// cubic Bézier curve from p0 to p3, using Wang's formula for the
// segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		emit(p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

func (r *Rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addEdge adds the user space segment p0→p1 to the edge list.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	a := r.transform(p0)
	b := r.transform(p1)

	dy := b.Y - a.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	if r.bboxEmpty {
		r.bxMin, r.bxMax = min(a.X, b.X), max(a.X, b.X)
		r.byMin, r.byMax = min(a.Y, b.Y), max(a.Y, b.Y)
		r.bboxEmpty = false
		return
	}
	r.bxMin = min(r.bxMin, a.X, b.X)
	r.bxMax = max(r.bxMax, a.X, b.X)
	r.byMin = min(r.byMin, a.Y, b.Y)
	r.byMax = max(r.byMax, a.Y, b.Y)
}

// render turns the current edge list into a coverage tile.
//
// For every pixel two values are accumulated: cover, the signed vertical
// extent of all edge pieces crossing the pixel, and area, the part of that
// extent weighted by the horizontal distance to the right pixel border.
// Integrating along a scanline yields the signed covered area per pixel.
func (r *Rasterizer) render(evenOdd bool) *image.Alpha {
	if len(r.edges) == 0 {
		return nil
	}

	// clip in floating point, the unclipped box may not fit into an int
	x0, x1 := math.Floor(r.bxMin), math.Floor(r.bxMax)+1
	y0, y1 := math.Floor(r.byMin), math.Floor(r.byMax)+1
	if r.Clip != (rect.Rect{}) {
		x0 = max(x0, math.Floor(r.Clip.LLx))
		x1 = min(x1, math.Ceil(r.Clip.URx))
		y0 = max(y0, math.Floor(r.Clip.LLy))
		y1 = min(y1, math.Ceil(r.Clip.URy))
	}
	if !(x0 < x1 && y0 < y1) {
		return nil
	}
	xMin, xMax := int(x0), int(x1)
	yMin, yMax := int(y0), int(y1)

	width := xMax - xMin
	height := yMax - yMin
	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)

	for i := range r.edges {
		e := &r.edges[i]
		y0 := int(max(math.Floor(min(e.y0, e.y1)), float64(yMin)))
		y1 := int(min(math.Floor(max(e.y0, e.y1))+1, float64(yMax)))
		for y := y0; y < y1; y++ {
			off := (y - yMin) * width
			accumulateEdge(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
		}
	}

	tile := image.NewAlpha(image.Rect(xMin, yMin, xMax, yMax))
	painted := false
	for row := range height {
		off := row * width
		cover := r.cover[off : off+width]
		area := r.area[off : off+width]
		pix := tile.Pix[row*tile.Stride : row*tile.Stride+width]

		var accum float32
		for i := range cover {
			raw := accum + area[i]
			accum += cover[i]
			c := coverage(raw, evenOdd)
			if c > 0 {
				pix[i] = uint8(c*255 + 0.5)
				painted = true
			}
		}
	}
	if !painted {
		return nil
	}
	return tile
}

// coverage maps a signed winding area to a coverage value in [0, 1].
func coverage(raw float32, evenOdd bool) float32 {
	if raw < 0 {
		raw = -raw
	}
	if !evenOdd {
		return min(raw, 1)
	}
	mod := raw - 2*float32(int(raw/2))
	c := 1 - mod
	if c < 0 {
		c = -c
	}
	return 1 - c
}

// accumulateEdge adds the contribution of e within scanline [y, y+1) to
// the cover and area rows. Both rows are indexed by x - xMin. Pieces left
// of the row are folded into the first pixel.
func accumulateEdge(e *edge, y int, cover, area []float32, xMin, xMax int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	if xa > xb {
		xa, xb = xb, xa
	}
	// Columns left of the row collapse into column xMin-1, columns right
	// of it into column xMax, which is discarded.
	left := int(min(max(math.Floor(xa), float64(xMin-1)), float64(xMax)))
	right := int(min(max(math.Floor(xb), float64(xMin-1)), float64(xMax)))

	if left == right {
		addPiece(e, yTop, yBot, sign, left, cover, area, xMin, xMax)
		return
	}

	dydx := 1 / e.dxdy
	for pix := left; pix <= right; pix++ {
		xl, xr := float64(pix), float64(pix+1)
		if pix == left {
			xl = xa
		}
		if pix == right {
			xr = xb
		}
		ya := e.y0 + dydx*(xl-e.x0)
		yb := e.y0 + dydx*(xr-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		addPiece(e, lo, hi, sign, pix, cover, area, xMin, xMax)
	}
}

// addPiece records the part of e between yTop and yBot, which lies
// inside pixel column pix.
func addPiece(e *edge, yTop, yBot float64, sign float32, pix int, cover, area []float32, xMin, xMax int) {
	c := sign * float32(yBot-yTop)
	switch {
	case pix < xMin:
		cover[0] += c
		area[0] += c
	case pix < xMax:
		yMid := (yTop + yBot) / 2
		xFrac := e.x0 + e.dxdy*(yMid-e.y0) - float64(pix)
		i := pix - xMin
		cover[i] += c
		area[i] += c * float32(1-xFrac)
	}
}
