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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// apply maps p through m.
func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	x, y := m.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// invert returns the inverse of m. The second return value is false if m
// is singular or not finite, cases in which [matrix.Matrix.Inv] panics or
// returns garbage.
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	return m.Inv(), true
}

// PathExtent returns the largest distance of any point of p from the
// user space origin. Control points are included, so the value bounds the
// curve. The result is used to scale the quantization step of the linear
// transform coefficients, see [QuantizeTransform].
func PathExtent(p path.Path) float64 {
	var ext float64
	for _, pts := range p {
		for _, pt := range pts {
			ext = max(ext, math.Abs(pt.X), math.Abs(pt.Y))
		}
	}
	return ext * math.Sqrt2
}
