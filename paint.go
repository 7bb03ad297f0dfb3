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
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"seehuhn.de/go/geom/matrix"
)

// ErrNoPaint is returned by [ParseColor] for the keyword "none".
var ErrNoPaint = errors.New("no paint")

// ParseColor parses an SVG colour value: "#rgb", "#rrggbb", "rgb(r, g, b)"
// with integer or percentage components, or one of the SVG colour keywords.
// The result is opaque. For the keyword "none" the error is [ErrNoPaint].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none":
		return color.NRGBA{}, ErrNoPaint
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown colour %q", s)
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func parseRGBFunc(s string) (color.NRGBA, error) {
	args := strings.Split(s[len("rgb("):len(s)-1], ",")
	if len(args) != 3 {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	var ch [3]uint8
	for i, a := range args {
		a = strings.TrimSpace(a)
		scale := 1.0
		if strings.HasSuffix(a, "%") {
			a = strings.TrimSuffix(a, "%")
			scale = 255.0 / 100
		}
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("malformed colour %q: %w", s, err)
		}
		ch[i] = uint8(min(max(v*scale, 0), 255) + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
}

// withOpacity scales the alpha channel of c.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(min(max(float64(c.A)*opacity, 0), 255) + 0.5)
	return c
}

// paintSource returns the image used as source when compositing a pass.
// Gradients take precedence over the solid colour.
func paintSource(g *Gradient, c color.NRGBA, ctm matrix.Matrix, opacity float64) image.Image {
	if g.Kind != GradientNone && len(g.Stops) > 0 {
		if src := g.Image(ctm, opacity); src != nil {
			return src
		}
	}
	return image.NewUniform(withOpacity(c, opacity))
}
