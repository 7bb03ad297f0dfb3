package svgrender

import (
	"slices"
	"testing"
)

func TestParseDashArray(t *testing.T) {
	cases := []struct {
		in   string
		want DashArray
	}{
		{"", nil},
		{"none", nil},
		{"0 0", nil},
		{"5,3", DashArray{{On: 5, Off: 3}}},
		{"5 3 1 2", DashArray{{On: 5, Off: 3}, {On: 1, Off: 2}}},
		{" 4, 2 ,1 ", DashArray{{On: 4, Off: 2}, {On: 1, Off: 4}, {On: 2, Off: 1}}},
		{"7", DashArray{{On: 7, Off: 7}}},
	}
	for _, c := range cases {
		got, err := ParseDashArray(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%q: got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDashArrayErrors(t *testing.T) {
	for _, in := range []string{"5,-3", "5,x", "1 2 three"} {
		if _, err := ParseDashArray(in); err == nil {
			t.Errorf("%q: no error", in)
		}
	}
}

func TestDashPattern(t *testing.T) {
	d := DashArray{{On: 5, Off: 3}, {On: 1, Off: 2}}
	if got := d.Pattern(); !slices.Equal(got, []float64{5, 3, 1, 2}) {
		t.Errorf("got %v", got)
	}
	if DashArray(nil).Pattern() != nil {
		t.Error("solid line has a pattern")
	}
}
