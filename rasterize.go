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
	"image"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/svgrender/internal/raster"
)

// RasterizeFunc renders the coverage tiles of path p drawn with transform m
// and the fill and stroke settings of attr. Tiles are in device space; a
// pass which paints nothing yields a nil tile. If window is not empty, the
// tiles must not extend beyond it. The function must not retain or modify
// attr.
//
// A RasterizeFunc may be called concurrently for different records.
type RasterizeFunc func(p path.Path, m matrix.Matrix, attr *PathAttributes, window image.Rectangle) TilePair

var rasterizerPool = sync.Pool{
	New: func() any { return raster.New() },
}

// Rasterize is the default [RasterizeFunc]. It uses an anti-aliasing
// scanline rasterizer with exact area coverage.
func Rasterize(p path.Path, m matrix.Matrix, attr *PathAttributes, window image.Rectangle) TilePair {
	r := rasterizerPool.Get().(*raster.Rasterizer)
	defer rasterizerPool.Put(r)

	r.CTM = m
	r.Clip = rect.Rect{}
	if !window.Empty() {
		r.Clip = rect.Rect{
			LLx: float64(window.Min.X), LLy: float64(window.Min.Y),
			URx: float64(window.Max.X), URy: float64(window.Max.Y),
		}
	}

	var tiles TilePair
	if attr.Fills() {
		tiles.Fill = r.Fill(p, attr.FillRule() == EvenOdd)
	}
	if attr.Strokes() {
		style := attr.StrokeStyle()
		r.Width = style.Width
		r.Cap = style.Cap
		r.Join = style.Join
		r.MiterLimit = style.MiterLimit
		r.Dash = style.Dash
		r.DashPhase = style.DashPhase
		tiles.Stroke = r.Stroke(p)
	}
	return tiles
}
