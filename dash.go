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
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Dash is one on/off element of a dash pattern, in user space units.
type Dash struct {
	On, Off float64
}

// DashArray is an ordered sequence of dash elements. An empty array means
// a solid line.
type DashArray []Dash

// Pattern returns the dash array as a flat list of alternating on and off
// lengths, or nil for a solid line.
func (d DashArray) Pattern() []float64 {
	if len(d) == 0 {
		return nil
	}
	res := make([]float64, 0, 2*len(d))
	for _, e := range d {
		res = append(res, e.On, e.Off)
	}
	return res
}

// Equal reports whether d and other describe the same pattern.
func (d DashArray) Equal(other DashArray) bool {
	return slices.Equal(d, other)
}

// ParseDashArray parses the value of an SVG stroke-dasharray property.
// Lengths are separated by commas and/or white space; a list of odd length
// is repeated to yield an even number of values. The keyword "none" and
// the empty string give a solid line, as does a list whose lengths are all
// zero.
func ParseDashArray(s string) (DashArray, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	vals := make([]float64, 0, len(fields))
	var total float64
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("dash array %q: %w", s, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("dash array %q: negative length %g", s, v)
		}
		vals = append(vals, v)
		total += v
	}
	if total == 0 {
		return nil, nil
	}
	if len(vals)%2 == 1 {
		vals = append(vals, vals...)
	}

	res := make(DashArray, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		res = append(res, Dash{On: vals[i], Off: vals[i+1]})
	}
	return res, nil
}
