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

package raster

import (
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const (
	// collinearityThreshold is the |sin θ| below which two segments are
	// treated as collinear and need no join.
	collinearityThreshold = 1e-9

	minArcSegments = 8
)

// Stroke returns the coverage of the stroked path, using Width, Cap, Join,
// MiterLimit, Dash and DashPhase. The result is nil if nothing is covered.
//
// The outline is assembled from convex pieces (one quadrilateral per
// segment plus join and cap polygons), all oriented the same way, and the
// pieces are filled together with the nonzero rule.
func (r *Rasterizer) Stroke(p path.Path) *image.Alpha {
	r.flatten(p)
	r.polys = r.polys[:0]

	d := r.Width / 2
	if d <= 0 {
		return nil
	}

	dashed := hasDash(r.Dash)
	for _, sp := range r.subpaths {
		if !dashed {
			r.strokePolyline(sp.pts, sp.closed, d)
			continue
		}
		dashPolyline(sp.pts, r.Dash, r.DashPhase, func(piece []vec.Vec2) {
			r.strokePolyline(piece, false, d)
		})
	}

	r.resetEdges()
	for _, poly := range r.polys {
		if signedArea(poly) < 0 {
			slices.Reverse(poly)
		}
		for i := range poly {
			r.addEdge(poly[i], poly[(i+1)%len(poly)])
		}
	}
	return r.render(false)
}

// strokePolyline adds the outline pieces of one polyline to r.polys.
func (r *Rasterizer) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	if len(pts) == 1 || closed && len(pts) == 2 {
		// zero length: only round caps paint something
		if r.Cap == graphics.LineCapRound {
			r.addCircle(pts[0], d)
		}
		return
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		n := b.Sub(a).Normal().Mul(d)
		r.addPoly(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
	}

	for i := 1; i < len(pts)-1; i++ {
		r.addJoin(pts[i-1], pts[i], pts[i+1], d)
	}
	if closed {
		n := len(pts)
		r.addJoin(pts[n-2], pts[0], pts[1], d)
		return
	}

	r.addCap(pts[0], pts[1], d)
	r.addCap(pts[len(pts)-1], pts[len(pts)-2], d)
}

// addJoin adds the join geometry at corner b of the polyline a→b→c.
func (r *Rasterizer) addJoin(a, b, c vec.Vec2, d float64) {
	t1 := b.Sub(a).Normalize()
	t2 := c.Sub(b).Normalize()
	sin := t1.X*t2.Y - t1.Y*t2.X
	cos := t1.Dot(t2)
	if sin > -collinearityThreshold && sin < collinearityThreshold && cos > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(b, d)
		return
	}

	// The outer side of the corner is opposite to the turn direction.
	side := -1.0
	if sin < 0 {
		side = 1
	}
	n1 := t1.Rot90().Mul(side * d)
	n2 := t2.Rot90().Mul(side * d)

	if r.Join == graphics.LineJoinMiter {
		// miter length / width = 1 / sin(φ/2), φ the angle between segments
		ratio := math.Sqrt(2 / (1 + cos))
		if cos > -1 && ratio <= r.MiterLimit {
			bis := n1.Add(n2)
			if l := bis.Length(); l > 0 {
				tip := b.Add(bis.Mul(d * ratio / l))
				r.addPoly(b, b.Add(n1), tip, b.Add(n2))
				return
			}
		}
	}
	r.addPoly(b, b.Add(n1), b.Add(n2))
}

// addCap adds the cap at end point p of a polyline whose neighbouring
// point is q.
func (r *Rasterizer) addCap(p, q vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, d)
	case graphics.LineCapSquare:
		t := p.Sub(q).Normalize().Mul(d)
		n := t.Rot90()
		ext := p.Add(t)
		r.addPoly(p.Add(n), ext.Add(n), ext.Sub(n), p.Sub(n))
	}
}

// addCircle adds a polygon approximating the circle of radius rad around
// center. The number of vertices keeps the device space error below
// Flatness.
func (r *Rasterizer) addCircle(center vec.Vec2, rad float64) {
	n := minArcSegments
	if rDev := rad * r.deviceScale(); rDev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/rDev)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}
	poly := make([]vec.Vec2, n)
	for i := range poly {
		phi := 2 * math.Pi * float64(i) / float64(n)
		poly[i] = vec.Vec2{
			X: center.X + rad*math.Cos(phi),
			Y: center.Y + rad*math.Sin(phi),
		}
	}
	r.polys = append(r.polys, poly)
}

func (r *Rasterizer) addPoly(pts ...vec.Vec2) {
	r.polys = append(r.polys, pts)
}

// signedArea returns twice the signed area of the polygon.
func signedArea(poly []vec.Vec2) float64 {
	var s float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		s += p.X*q.Y - q.X*p.Y
	}
	return s
}
