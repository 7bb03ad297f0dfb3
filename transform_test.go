package svgrender

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func TestInvert(t *testing.T) {
	m := matrix.Scale(2, 0.5).RotateDeg(30).Translate(7, -3)
	inv, ok := invert(m)
	if !ok {
		t.Fatal("regular matrix reported as singular")
	}
	for _, p := range []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: -40, Y: 13}} {
		if d := apply(inv, apply(m, p)).Sub(p); d.Length() > 1e-9 {
			t.Errorf("%v: round trip is off by %v", p, d)
		}
	}

	for name, m := range map[string]matrix.Matrix{
		"zero":     {},
		"rank one": {1, 2, 2, 4, 0, 0},
		"NaN":      {math.NaN(), 0, 0, 1, 0, 0},
		"Inf":      {math.Inf(1), 0, 0, 1, 0, 0},
	} {
		if _, ok := invert(m); ok {
			t.Errorf("%s: no error", name)
		}
	}
}
