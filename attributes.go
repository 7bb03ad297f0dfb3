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
	"image/color"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"
)

const (
	defaultMiterLimit  = 4.0
	defaultStrokeWidth = 1.0
)

// PathAttributes is the paint, geometry and visibility state used to draw
// one path. A renderer creates one record per path node, either from
// scratch or by cloning the record of the parent node and overriding
// individual fields.
//
// The record owns a [TileCache] holding previously rasterized tiles of the
// path. How the cache is passed on to clones is selected by the cache's
// [CacheMode].
//
// The flag pairs FillFlag/FillNone and StrokeFlag/StrokeNone are expected
// to be mutually exclusive. This is not checked; see [PathAttributes.Fills]
// for the precedence used when both are set.
type PathAttributes struct {
	FillGradient   Gradient
	StrokeGradient Gradient

	// Transform maps the path from user space to device space.
	Transform matrix.Matrix

	// Opacity applies to both passes, FillOpacity and StrokeOpacity to one
	// pass each. The values are multiplied; they are not range checked.
	Opacity       float64
	FillOpacity   float64
	StrokeOpacity float64

	MiterLimit  float64
	StrokeWidth float64

	// Index identifies the record within the sequence of records of one
	// document.
	Index uint

	FillColor   color.NRGBA
	StrokeColor color.NRGBA

	LineJoin graphics.LineJoinStyle
	LineCap  graphics.LineCapStyle

	FillFlag   bool
	FillNone   bool
	StrokeFlag bool
	StrokeNone bool

	// EvenOddFlag selects the even-odd fill rule instead of nonzero
	// winding.
	EvenOddFlag bool

	VisibilityFlag bool
	DisplayFlag    bool

	Dash       DashArray
	DashOffset float64

	cache *TileCache
}

// NewPathAttributes returns a record with SVG default values: solid black
// fill, no stroke, full opacity, miter joins with limit 4, butt caps,
// stroke width 1, no dashing, visible, index 0. The record gets an empty
// tile cache configured by opts.
func NewPathAttributes(opts ...CacheOption) *PathAttributes {
	return &PathAttributes{
		Transform:      matrix.Identity,
		Opacity:        1,
		FillOpacity:    1,
		StrokeOpacity:  1,
		MiterLimit:     defaultMiterLimit,
		StrokeWidth:    defaultStrokeWidth,
		FillColor:      color.NRGBA{A: 0xff},
		StrokeColor:    color.NRGBA{A: 0xff},
		LineJoin:       graphics.LineJoinMiter,
		LineCap:        graphics.LineCapButt,
		FillFlag:       true,
		VisibilityFlag: true,
		DisplayFlag:    true,
		cache:          NewTileCache(opts...),
	}
}

// Clone returns a copy of the record. The dash array and gradient stops
// are copied, the tile cache is passed on according to its mode.
//
// Fields of the clone may be changed freely. Tiles are looked up by
// transform, path geometry and the fill and stroke settings, so a clone
// never reuses tiles rasterized for a different fill rule or stroke.
func (a *PathAttributes) Clone() *PathAttributes {
	b := *a
	b.Dash = slices.Clone(a.Dash)
	b.FillGradient.Stops = slices.Clone(a.FillGradient.Stops)
	b.StrokeGradient.Stops = slices.Clone(a.StrokeGradient.Stops)
	b.cache = a.cache.derive()
	return &b
}

// CloneWithIndex returns a copy of the record with Index set to idx. This
// is used when the same geometry is drawn in another pass.
func (a *PathAttributes) CloneWithIndex(idx uint) *PathAttributes {
	b := a.Clone()
	b.Index = idx
	return b
}

// Cache returns the tile cache of the record.
func (a *PathAttributes) Cache() *TileCache {
	return a.cache
}

// TileKey returns the cache key for the current transform, for a path with
// the given extent (see [PathExtent]).
func (a *PathAttributes) TileKey(extent float64) TileKey {
	return QuantizeTransform(a.Transform, a.cache.samplingRate, extent)
}

// Fills reports whether the fill pass paints. If both FillFlag and
// FillNone are set, FillNone wins.
func (a *PathAttributes) Fills() bool {
	return a.FillFlag && !a.FillNone
}

// Strokes reports whether the stroke pass paints. If both StrokeFlag and
// StrokeNone are set, StrokeNone wins. A non-positive stroke width paints
// nothing.
func (a *PathAttributes) Strokes() bool {
	return a.StrokeFlag && !a.StrokeNone && a.StrokeWidth > 0
}

// Visible reports whether the path is drawn at all.
func (a *PathAttributes) Visible() bool {
	return a.VisibilityFlag && a.DisplayFlag
}

// FillRule is the fill rule selected by EvenOddFlag.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// FillRule returns the fill rule of the record.
func (a *PathAttributes) FillRule() FillRule {
	if a.EvenOddFlag {
		return EvenOdd
	}
	return NonZero
}

// StrokeStyle collects the parameters the rasterizer needs for the stroke
// pass.
type StrokeStyle struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

// StrokeStyle returns the stroke parameters of the record.
func (a *PathAttributes) StrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      a.StrokeWidth,
		Cap:        a.LineCap,
		Join:       a.LineJoin,
		MiterLimit: a.MiterLimit,
		Dash:       a.Dash.Pattern(),
		DashPhase:  a.DashOffset,
	}
}
