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

// Package testcases defines sample scenes used by the tests, the benchmarks
// and the svgtile command.
package testcases

import (
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Scene is a canvas together with the paths drawn onto it.
type Scene struct {
	Name   string // lowercase a-z and _ only
	Width  int    // canvas width in pixels
	Height int    // canvas height in pixels
	Items  []Item
}

// Item is one path of a scene.
type Item struct {
	Path path.Path
	CTM  matrix.Matrix // zero value means identity

	Fill   *Fill   // nil means no fill
	Stroke *Stroke // nil means no stroke

	Opacity float64 // zero value means opaque

	// Instances lists additional translations (in device pixels, applied
	// after CTM) at which the item is drawn again. Markers repeated along
	// a line are the typical use.
	Instances []vec.Vec2
}

// FillRule specifies the rule for determining interior points.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Fill specifies the fill pass of an item.
type Fill struct {
	Rule  FillRule
	Color color.NRGBA
}

// Stroke specifies the stroke pass of an item.
type Stroke struct {
	Color      color.NRGBA
	Width      float64                // line width (>0)
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64                // miter limit
	Dash       []float64              // alternating on/off lengths (nil for solid)
	DashPhase  float64                // dash phase offset
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// gray returns an opaque gray colour.
func gray(v uint8) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: 0xff}
}
