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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Rectangle builds an axis-aligned rectangular path.
func Rectangle(x1, y1, x2, y2 float64) path.Path {
	return Polygon(pt(x1, y1), pt(x2, y1), pt(x2, y2), pt(x1, y2))
}

// Polygon builds a closed path through the given points.
func Polygon(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) == 0 {
			return
		}
		if !yield(path.CmdMoveTo, pts[:1]) {
			return
		}
		for i := 1; i < len(pts); i++ {
			if !yield(path.CmdLineTo, pts[i:i+1]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

// Polyline builds an open path through the given points.
func Polyline(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) == 0 {
			return
		}
		if !yield(path.CmdMoveTo, pts[:1]) {
			return
		}
		for i := 1; i < len(pts); i++ {
			if !yield(path.CmdLineTo, pts[i:i+1]) {
				return
			}
		}
	}
}

// Star builds a five-pointed star (self-intersecting) centred at (cx, cy).
func Star(cx, cy, r float64) path.Path {
	pts := make([]vec.Vec2, 5)
	for i := range 5 {
		// every second vertex: 0, 2, 4, 1, 3
		k := (2 * i) % 5
		angle := float64(k)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return Polygon(pts...)
}

// Circle builds a circle from four cubic Bézier curves. If clockwise is
// set, the circle runs clockwise in a y-down coordinate system.
func Circle(cx, cy, r float64, clockwise bool) path.Path {
	const k = 0.5522847498
	kr := k * r
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [3]vec.Vec2

		s := 1.0
		if !clockwise {
			s = -1
		}
		buf[0] = pt(cx, cy-r)
		if !yield(path.CmdMoveTo, buf[:1]) {
			return
		}
		buf[0], buf[1], buf[2] = pt(cx+s*kr, cy-r), pt(cx+s*r, cy-kr), pt(cx+s*r, cy)
		if !yield(path.CmdCubeTo, buf[:3]) {
			return
		}
		buf[0], buf[1], buf[2] = pt(cx+s*r, cy+kr), pt(cx+s*kr, cy+r), pt(cx, cy+r)
		if !yield(path.CmdCubeTo, buf[:3]) {
			return
		}
		buf[0], buf[1], buf[2] = pt(cx-s*kr, cy+r), pt(cx-s*r, cy+kr), pt(cx-s*r, cy)
		if !yield(path.CmdCubeTo, buf[:3]) {
			return
		}
		buf[0], buf[1], buf[2] = pt(cx-s*r, cy-kr), pt(cx-s*kr, cy-r), pt(cx, cy-r)
		if !yield(path.CmdCubeTo, buf[:3]) {
			return
		}
		yield(path.CmdClose, nil)
	}
}

// Ring builds an annulus: the outer circle runs counter-clockwise, the
// inner one clockwise, so the hole is empty under both fill rules.
func Ring(cx, cy, outer, inner float64) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, pts := range Circle(cx, cy, outer, false) {
			if !yield(cmd, pts) {
				return
			}
		}
		for cmd, pts := range Circle(cx, cy, inner, true) {
			if !yield(cmd, pts) {
				return
			}
		}
	}
}

// Zigzag builds an open zigzag line from (x1, cy) to (x2, cy) with the
// given number of segments.
func Zigzag(x1, cy, x2, amplitude float64, segments int) path.Path {
	pts := make([]vec.Vec2, 0, segments+1)
	pts = append(pts, pt(x1, cy))
	segWidth := (x2 - x1) / float64(segments)
	for i := 1; i <= segments; i++ {
		y := cy + amplitude
		if i%2 == 1 {
			y = cy - amplitude
		}
		pts = append(pts, pt(x1+float64(i)*segWidth, y))
	}
	return Polyline(pts...)
}

// MixedCurve builds a closed path combining line segments with a
// quadratic and a cubic Bézier curve.
func MixedCurve() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, []vec.Vec2{{X: 10, Y: 50}}) {
			return
		}
		if !yield(path.CmdLineTo, []vec.Vec2{{X: 20, Y: 30}}) {
			return
		}
		if !yield(path.CmdQuadTo, []vec.Vec2{{X: 32, Y: 10}, {X: 44, Y: 30}}) {
			return
		}
		if !yield(path.CmdLineTo, []vec.Vec2{{X: 54, Y: 50}}) {
			return
		}
		if !yield(path.CmdCubeTo, []vec.Vec2{{X: 48, Y: 60}, {X: 16, Y: 60}, {X: 10, Y: 50}}) {
			return
		}
		yield(path.CmdClose, nil)
	}
}
