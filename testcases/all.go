package testcases

import (
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// All contains all scenes, indexed by name.
var All = map[string]Scene{}

func init() {
	for _, sc := range []Scene{
		fillScene,
		strokeScene,
		dashScene,
		markerScene,
		transformScene,
	} {
		All[sc.Name] = sc
	}
}

var (
	black = gray(0)
	red   = color.NRGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}
	blue  = color.NRGBA{R: 0x20, G: 0x40, B: 0xd0, A: 0xff}
)

var fillScene = Scene{
	Name:   "fill",
	Width:  128,
	Height: 64,
	Items: []Item{
		{
			Path: Star(32, 34, 28),
			Fill: &Fill{Rule: NonZero, Color: red},
		},
		{
			Path: Star(96, 34, 28),
			Fill: &Fill{Rule: EvenOdd, Color: blue},
		},
	},
}

var strokeScene = Scene{
	Name:   "stroke",
	Width:  128,
	Height: 64,
	Items: []Item{
		{
			Path: Zigzag(8, 32, 60, 16, 4),
			Stroke: &Stroke{
				Color:      black,
				Width:      6,
				Cap:        graphics.LineCapButt,
				Join:       graphics.LineJoinMiter,
				MiterLimit: 10,
			},
		},
		{
			Path: Zigzag(68, 32, 120, 16, 4),
			Stroke: &Stroke{
				Color:      black,
				Width:      6,
				Cap:        graphics.LineCapRound,
				Join:       graphics.LineJoinRound,
				MiterLimit: 10,
			},
		},
	},
}

var dashScene = Scene{
	Name:   "dash",
	Width:  128,
	Height: 64,
	Items: []Item{
		{
			Path: Polyline(pt(8, 16), pt(120, 16)),
			Stroke: &Stroke{
				Color:      black,
				Width:      4,
				Cap:        graphics.LineCapButt,
				Join:       graphics.LineJoinMiter,
				MiterLimit: 4,
				Dash:       []float64{5, 3},
				DashPhase:  2,
			},
		},
		{
			Path: Rectangle(16, 28, 112, 56),
			Fill: &Fill{Color: gray(0xe0)},
			Stroke: &Stroke{
				Color:      blue,
				Width:      3,
				Cap:        graphics.LineCapSquare,
				Join:       graphics.LineJoinBevel,
				MiterLimit: 4,
				Dash:       []float64{12, 4, 2, 4},
			},
		},
	},
}

// markerScene draws the same marker at many positions. Only the sub-pixel
// part of the positions differs between most instances, so most of them
// are served from the tile cache.
var markerScene = Scene{
	Name:   "markers",
	Width:  256,
	Height: 128,
	Items: []Item{
		{
			Path:    Circle(0, 0, 5, false),
			CTM:     matrix.Identity.Translate(8, 8),
			Fill:    &Fill{Color: red},
			Opacity: 0.8,
			Stroke: &Stroke{
				Color:      black,
				Width:      1.5,
				Cap:        graphics.LineCapButt,
				Join:       graphics.LineJoinMiter,
				MiterLimit: 4,
			},
			Instances: markerGrid(16, 8, 15.25, 15.5),
		},
	},
}

var transformScene = Scene{
	Name:   "transform",
	Width:  128,
	Height: 128,
	Items: []Item{
		{
			Path: MixedCurve(),
			Fill: &Fill{Color: blue},
		},
		{
			Path: Ring(0, 0, 20, 10),
			CTM:  matrix.RotateDeg(30).Translate(84, 40),
			Fill: &Fill{Color: red},
		},
		{
			Path: Rectangle(-12, -12, 12, 12),
			CTM:  matrix.Scale(1.5, 0.75).Translate(40, 96),
			Stroke: &Stroke{
				Color:      black,
				Width:      2,
				Cap:        graphics.LineCapButt,
				Join:       graphics.LineJoinMiter,
				MiterLimit: 10,
			},
		},
	},
}

// markerGrid returns the offsets of a cols×rows grid with the given
// spacing. The first position is the origin.
func markerGrid(cols, rows int, dx, dy float64) []vec.Vec2 {
	res := make([]vec.Vec2, 0, cols*rows-1)
	for j := range rows {
		for i := range cols {
			if i == 0 && j == 0 {
				continue
			}
			res = append(res, vec.Vec2{X: float64(i) * dx, Y: float64(j) * dy})
		}
	}
	return res
}
