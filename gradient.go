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

package svgrender

import (
	"cmp"
	"image"
	"image/color"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// GradientKind selects the geometry of a [Gradient].
type GradientKind int

const (
	GradientNone GradientKind = iota
	GradientLinear
	GradientRadial
)

// GradientStop is a colour at a relative position along a gradient.
type GradientStop struct {
	Offset float64 // in [0, 1]
	Color  color.NRGBA
}

// Gradient describes a gradient paint in user space. The zero value is "no
// gradient", in which case the solid colour of the pass is used.
//
// For linear gradients the colour varies along the vector from (X1, Y1) to
// (X2, Y2). For radial gradients, (X1, Y1) is the centre and R the radius;
// the focal point (X2, Y2) is ignored. Values outside [0, 1] use the colour
// of the nearest stop. Stop offsets outside [0, 1] are clamped, stops with
// a NaN offset are ignored.
type Gradient struct {
	Kind           GradientKind
	Stops          []GradientStop
	X1, Y1, X2, Y2 float64
	R              float64

	// Transform maps gradient space to user space. The zero value is
	// treated as the identity.
	Transform matrix.Matrix
}

// Image returns a device space paint source for the gradient, for a path
// drawn with transform ctm. The alpha of every colour is multiplied by
// opacity. The result is nil if the gradient cannot be evaluated, for
// example because a transform is singular.
func (g *Gradient) Image(ctm matrix.Matrix, opacity float64) image.Image {
	if g.Kind == GradientNone || len(g.Stops) == 0 {
		return nil
	}
	gt := g.Transform
	if gt == (matrix.Matrix{}) {
		gt = matrix.Identity
	}
	inv, ok := invert(gt.Mul(ctm))
	if !ok {
		return nil
	}

	// Offsets are clamped to [0, 1]; stops without a valid offset are
	// ignored.
	stops := make([]GradientStop, 0, len(g.Stops))
	for _, stop := range g.Stops {
		if math.IsNaN(stop.Offset) {
			continue
		}
		stop.Offset = min(max(stop.Offset, 0), 1)
		stops = append(stops, stop)
	}
	if len(stops) == 0 {
		return nil
	}
	slices.SortStableFunc(stops, func(a, b GradientStop) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	for i := range stops {
		stops[i].Color = withOpacity(stops[i].Color, opacity)
	}

	return &gradientImage{
		kind:  g.Kind,
		stops: stops,
		p1:    vec.Vec2{X: g.X1, Y: g.Y1},
		p2:    vec.Vec2{X: g.X2, Y: g.Y2},
		r:     g.R,
		inv:   inv,
	}
}

// gradientImage is an unbounded image evaluating a gradient at pixel
// centres.
type gradientImage struct {
	kind   GradientKind
	stops  []GradientStop
	p1, p2 vec.Vec2
	r      float64
	inv    matrix.Matrix // device space to gradient space
}

func (gi *gradientImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (gi *gradientImage) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (gi *gradientImage) At(x, y int) color.Color {
	p := apply(gi.inv, vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5})

	t := 1.0
	switch gi.kind {
	case GradientLinear:
		d := gi.p2.Sub(gi.p1)
		if l2 := d.Dot(d); l2 > 0 {
			t = p.Sub(gi.p1).Dot(d) / l2
		}
	case GradientRadial:
		if gi.r > 0 {
			t = p.Sub(gi.p1).Length() / gi.r
		}
	}
	return gi.colorAt(t)
}

// colorAt interpolates the stop colours at position t.
func (gi *gradientImage) colorAt(t float64) color.NRGBA {
	stops := gi.stops
	if math.IsNaN(t) || t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}

	i := 1
	for stops[i].Offset < t {
		i++
	}
	a, b := stops[i-1], stops[i]
	span := b.Offset - a.Offset
	if span <= 0 {
		return b.Color
	}
	u := (t - a.Offset) / span
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*u + 0.5)
	}
	return color.NRGBA{
		R: lerp(a.Color.R, b.Color.R),
		G: lerp(a.Color.G, b.Color.G),
		B: lerp(a.Color.B, b.Color.B),
		A: lerp(a.Color.A, b.Color.A),
	}
}
