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
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/svgrender/testcases"
)

func TestFillRectangle(t *testing.T) {
	r := New()
	tile := r.Fill(testcases.Rectangle(10, 10, 20, 20), false)
	if tile == nil {
		t.Fatal("no tile")
	}
	if tile.Rect.Min != (image.Point{X: 10, Y: 10}) {
		t.Errorf("tile origin %v", tile.Rect.Min)
	}
	if a := tile.AlphaAt(15, 15).A; a != 255 {
		t.Errorf("inside: got %d", a)
	}
	if a := tile.AlphaAt(10, 10).A; a != 255 {
		t.Errorf("corner: got %d", a)
	}
	for y := 10; y < 20; y++ {
		if a := tile.AlphaAt(20, y).A; a != 0 {
			t.Errorf("column 20, row %d: got %d", y, a)
		}
	}
}

func TestFillHalfPixel(t *testing.T) {
	r := New()
	tile := r.Fill(testcases.Rectangle(10, 10, 20.5, 20), false)
	if a := tile.AlphaAt(20, 15).A; a != 128 {
		t.Errorf("got %d, want 128", a)
	}
}

func TestFillTransform(t *testing.T) {
	r := New()
	r.CTM = matrix.Scale(2, 3).Translate(5, 1)
	tile := r.Fill(testcases.Rectangle(0, 0, 4, 4), false)
	want := image.Rect(5, 1, 14, 14)
	if tile.Rect != want {
		t.Errorf("bounds: got %v, want %v", tile.Rect, want)
	}
	if a := tile.AlphaAt(12, 12).A; a != 255 {
		t.Errorf("inside: got %d", a)
	}
}

func TestFillRules(t *testing.T) {
	star := testcases.Star(32, 34, 28)

	r := New()
	if a := r.Fill(star, false).AlphaAt(32, 34).A; a != 255 {
		t.Errorf("nonzero: centre has coverage %d", a)
	}
	if a := r.Fill(star, true).AlphaAt(32, 34).A; a != 0 {
		t.Errorf("even-odd: centre has coverage %d", a)
	}
	// a point inside one of the tips is covered under both rules
	if a := r.Fill(star, true).AlphaAt(32, 14).A; a != 255 {
		t.Errorf("even-odd: tip has coverage %d", a)
	}
}

func TestFillRing(t *testing.T) {
	r := New()
	ring := testcases.Ring(30, 30, 20, 10)
	for _, evenOdd := range []bool{false, true} {
		tile := r.Fill(ring, evenOdd)
		if a := tile.AlphaAt(30, 30).A; a != 0 {
			t.Errorf("evenOdd=%t: hole has coverage %d", evenOdd, a)
		}
		if a := tile.AlphaAt(45, 30).A; a != 255 {
			t.Errorf("evenOdd=%t: ring has coverage %d", evenOdd, a)
		}
	}
}

func TestFillClip(t *testing.T) {
	r := New()
	r.Clip = rect.Rect{LLx: 0, LLy: 0, URx: 15, URy: 15}
	tile := r.Fill(testcases.Rectangle(10, 10, 20, 20), false)
	if want := image.Rect(10, 10, 15, 15); tile.Rect != want {
		t.Errorf("bounds: got %v, want %v", tile.Rect, want)
	}

	r.Clip = rect.Rect{LLx: 30, LLy: 30, URx: 40, URy: 40}
	if tile := r.Fill(testcases.Rectangle(10, 10, 20, 20), false); tile != nil {
		t.Errorf("clipped path gave tile %v", tile.Rect)
	}
}

func TestFillClipHuge(t *testing.T) {
	r := New()
	r.Clip = rect.Rect{LLx: 0, LLy: 0, URx: 8, URy: 8}

	tile := r.Fill(testcases.Rectangle(-1e12, -1e12, 1e12, 1e12), false)
	if want := image.Rect(0, 0, 8, 8); tile == nil || tile.Rect != want {
		t.Fatalf("got %v, want bounds %v", tile, want)
	}
	for y := range 8 {
		for x := range 8 {
			if a := tile.AlphaAt(x, y).A; a != 255 {
				t.Fatalf("(%d, %d): got %d", x, y, a)
			}
		}
	}

	// a long edge crossing the clip rectangle: the half plane below the
	// diagonal y = x
	triangle := testcases.Polyline(
		vec.Vec2{X: -1e6, Y: -1e6},
		vec.Vec2{X: 1e6, Y: 1e6},
		vec.Vec2{X: -1e6, Y: 1e6},
	)
	tile = r.Fill(triangle, false)
	if tile == nil {
		t.Fatal("no tile")
	}
	for _, c := range []struct {
		x, y int
		want uint8
	}{
		{0, 7, 255}, {2, 5, 255}, {5, 2, 0}, {7, 0, 0}, {4, 4, 128},
	} {
		if a := tile.AlphaAt(c.x, c.y).A; a != c.want {
			t.Errorf("(%d, %d): got %d, want %d", c.x, c.y, a, c.want)
		}
	}
}

func TestFillEmpty(t *testing.T) {
	r := New()
	var empty path.Path = func(yield func(path.Command, []vec.Vec2) bool) {}
	if r.Fill(empty, false) != nil {
		t.Error("empty path gave a tile")
	}

	var moveOnly path.Path = func(yield func(path.Command, []vec.Vec2) bool) {
		yield(path.CmdMoveTo, []vec.Vec2{{X: 3, Y: 3}})
	}
	if r.Fill(moveOnly, false) != nil {
		t.Error("lone move-to gave a tile")
	}
	if r.Stroke(moveOnly) != nil {
		t.Error("stroking a lone move-to gave a tile")
	}
}

func TestCoverage(t *testing.T) {
	cases := []struct {
		raw     float32
		evenOdd bool
		want    float32
	}{
		{0.5, false, 0.5},
		{-0.5, false, 0.5},
		{2, false, 1},
		{1, true, 1},
		{2, true, 0},
		{-2, true, 0},
		{1.5, true, 0.5},
	}
	for _, c := range cases {
		if got := coverage(c.raw, c.evenOdd); math.Abs(float64(got-c.want)) > 1e-6 {
			t.Errorf("coverage(%g, %t) = %g, want %g", c.raw, c.evenOdd, got, c.want)
		}
	}
}

func TestStrokeLine(t *testing.T) {
	line := testcases.Polyline(vec.Vec2{X: 10, Y: 20}, vec.Vec2{X: 30, Y: 20})

	r := New()
	r.Width = 4
	tile := r.Stroke(line)
	if tile.Rect.Min != (image.Point{X: 10, Y: 18}) {
		t.Errorf("butt cap: origin %v", tile.Rect.Min)
	}
	if a := tile.AlphaAt(20, 19).A; a != 255 {
		t.Errorf("inside: got %d", a)
	}
	if a := tile.AlphaAt(20, 22).A; a != 0 {
		t.Errorf("below: got %d", a)
	}

	r.Cap = graphics.LineCapSquare
	tile = r.Stroke(line)
	if tile.Rect.Min.X != 8 {
		t.Errorf("square cap: origin %v", tile.Rect.Min)
	}
	if a := tile.AlphaAt(8, 19).A; a != 255 {
		t.Errorf("square cap: got %d", a)
	}

	r.Cap = graphics.LineCapRound
	tile = r.Stroke(line)
	if a := tile.AlphaAt(8, 18).A; a > 128 {
		t.Errorf("round cap corner: got %d", a)
	}
}

func TestStrokeJoins(t *testing.T) {
	corner := testcases.Polyline(
		vec.Vec2{X: 10, Y: 10},
		vec.Vec2{X: 30, Y: 10},
		vec.Vec2{X: 30, Y: 30},
	)

	r := New()
	r.Width = 4

	r.Join = graphics.LineJoinMiter
	if a := r.Stroke(corner).AlphaAt(31, 8).A; a != 255 {
		t.Errorf("miter: got %d", a)
	}

	r.Join = graphics.LineJoinBevel
	if a := r.Stroke(corner).AlphaAt(31, 8).A; a != 0 {
		t.Errorf("bevel: got %d", a)
	}

	// a right angle needs a miter ratio of √2
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = 1.4
	if a := r.Stroke(corner).AlphaAt(31, 8).A; a != 0 {
		t.Errorf("miter limit exceeded: got %d", a)
	}
}

func TestStrokeOverlapNotDoubled(t *testing.T) {
	// the segment quads and the join overlap at the corner; the nonzero
	// rule must not count the overlap twice
	corner := testcases.Polyline(
		vec.Vec2{X: 10, Y: 10},
		vec.Vec2{X: 30, Y: 10},
		vec.Vec2{X: 30, Y: 30},
	)
	r := New()
	r.Width = 4
	r.Join = graphics.LineJoinRound
	tile := r.Stroke(corner)
	for _, p := range []image.Point{{29, 9}, {30, 10}, {29, 11}} {
		if a := tile.AlphaAt(p.X, p.Y).A; a != 255 {
			t.Errorf("%v: got %d", p, a)
		}
	}
}

func TestStrokeDashed(t *testing.T) {
	r := New()
	r.Width = 2
	r.Dash = []float64{5, 3}
	r.DashPhase = 2
	tile := r.Stroke(testcases.Polyline(vec.Vec2{X: 0, Y: 5}, vec.Vec2{X: 20, Y: 5}))

	for x, want := range map[int]uint8{1: 255, 4: 0, 7: 255, 12: 0, 15: 255, 19: 0} {
		if a := tile.AlphaAt(x, 4).A; a != want {
			t.Errorf("x=%d: got %d, want %d", x, a, want)
		}
	}
}

func TestDashPolyline(t *testing.T) {
	pts := []vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0}}
	var pieces [][]vec.Vec2
	dashPolyline(pts, []float64{5, 3}, 2, func(piece []vec.Vec2) {
		pieces = append(pieces, slices.Clone(piece))
	})

	want := [][2]float64{{0, 3}, {6, 11}, {14, 19}}
	if len(pieces) != len(want) {
		t.Fatalf("got %d pieces, want %d: %v", len(pieces), len(want), pieces)
	}
	for i, piece := range pieces {
		first, last := piece[0], piece[len(piece)-1]
		if math.Abs(first.X-want[i][0]) > 1e-9 || math.Abs(last.X-want[i][1]) > 1e-9 {
			t.Errorf("piece %d: %v, want %v", i, piece, want[i])
		}
	}
}

func TestDashAcrossCorner(t *testing.T) {
	pts := []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}
	var pieces [][]vec.Vec2
	dashPolyline(pts, []float64{6, 10}, 0, func(piece []vec.Vec2) {
		pieces = append(pieces, slices.Clone(piece))
	})

	want := []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}}
	if len(pieces) != 1 || !slices.Equal(pieces[0], want) {
		t.Errorf("got %v, want [%v]", pieces, want)
	}
}

func TestHasDash(t *testing.T) {
	cases := []struct {
		pattern []float64
		want    bool
	}{
		{nil, false},
		{[]float64{0, 0}, false},
		{[]float64{1, -1}, false},
		{[]float64{3}, true},
		{[]float64{0, 2}, true},
	}
	for _, c := range cases {
		if got := hasDash(c.pattern); got != c.want {
			t.Errorf("hasDash(%v) = %t", c.pattern, got)
		}
	}
}
