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
	"math"

	"seehuhn.de/go/geom/vec"
)

// hasDash reports whether the pattern describes actual dashing. Patterns
// which are empty, contain negative entries or sum to zero mean a solid
// line.
func hasDash(pattern []float64) bool {
	var total float64
	for _, v := range pattern {
		if v < 0 {
			return false
		}
		total += v
	}
	return total > 0
}

// dashPolyline splits the polyline into the "on" pieces of the dash pattern
// and calls emit for each of them. Odd-length patterns are used twice, so
// that on and off alternate. The slice passed to emit is only valid during
// the call. A piece with a single point is a zero length dash.
func dashPolyline(pts []vec.Vec2, pattern []float64, phase float64, emit func([]vec.Vec2)) {
	n := len(pattern)
	if n%2 == 1 {
		n *= 2
	}
	elem := func(i int) float64 { return pattern[i%len(pattern)] }

	var total float64
	for i := range n {
		total += elem(i)
	}

	// locate the starting dash element
	phase = math.Mod(phase, total)
	if phase < 0 {
		phase += total
	}
	idx := 0
	for phase >= elem(idx) && elem(idx) > 0 || elem(idx) == 0 && phase > 0 {
		phase -= elem(idx)
		idx = (idx + 1) % n
	}
	remaining := elem(idx) - phase
	on := idx%2 == 0

	var piece []vec.Vec2
	if on {
		piece = append(piece, pts[0])
	}
	advance := func(at vec.Vec2) {
		if on {
			piece = append(piece, at)
			emit(piece)
			piece = piece[:0]
		} else {
			piece = append(piece[:0], at)
		}
		on = !on
		idx = (idx + 1) % n
		remaining = elem(idx)
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := b.Sub(a).Length()
		pos := 0.0
		for segLen-pos >= remaining {
			pos += remaining
			advance(a.Add(b.Sub(a).Mul(pos / segLen)))
		}
		remaining -= segLen - pos
		if on {
			piece = append(piece, b)
		}
	}
	if on && len(piece) > 0 {
		emit(piece)
	}
}
