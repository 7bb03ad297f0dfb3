package svgrender

import (
	"context"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/svgrender/testcases"
)

// BuildScene converts the items of a sample scene into attribute records.
// Every item gets a record of its own; every instance of an item is a
// clone of the item's record with a translated transform. Indices are
// assigned in drawing order, starting at 0.
func BuildScene(sc testcases.Scene, opts ...CacheOption) []SceneItem {
	var res []SceneItem
	var idx uint
	for _, item := range sc.Items {
		attr := NewPathAttributes(opts...)
		attr.Index = idx
		idx++
		if item.CTM != (matrix.Matrix{}) {
			attr.Transform = item.CTM
		}
		if item.Opacity != 0 {
			attr.Opacity = item.Opacity
		}

		attr.FillFlag = item.Fill != nil
		attr.FillNone = item.Fill == nil
		if f := item.Fill; f != nil {
			attr.FillColor = f.Color
			attr.EvenOddFlag = f.Rule == testcases.EvenOdd
		}

		attr.StrokeFlag = item.Stroke != nil
		attr.StrokeNone = item.Stroke == nil
		if s := item.Stroke; s != nil {
			attr.StrokeColor = s.Color
			attr.StrokeWidth = s.Width
			attr.LineCap = s.Cap
			attr.LineJoin = s.Join
			attr.MiterLimit = s.MiterLimit
			attr.DashOffset = s.DashPhase
			attr.Dash = dashFromPattern(s.Dash)
		}

		res = append(res, SceneItem{Path: item.Path, Attr: attr})
		for _, off := range item.Instances {
			inst := attr.CloneWithIndex(idx)
			idx++
			inst.Transform = attr.Transform.Translate(off.X, off.Y)
			res = append(res, SceneItem{Path: item.Path, Attr: inst})
		}
	}
	return res
}

// dashFromPattern converts a flat on/off list into a DashArray. Odd-length
// lists are repeated.
func dashFromPattern(pattern []float64) DashArray {
	if len(pattern) == 0 {
		return nil
	}
	if len(pattern)%2 == 1 {
		pattern = append(pattern[:len(pattern):len(pattern)], pattern...)
	}
	res := make(DashArray, 0, len(pattern)/2)
	for i := 0; i < len(pattern); i += 2 {
		res = append(res, Dash{On: pattern[i], Off: pattern[i+1]})
	}
	return res
}

// RenderScene draws a sample scene with r and returns the combined
// statistics of all tile caches involved.
func RenderScene(ctx context.Context, r *Renderer, sc testcases.Scene, opts ...CacheOption) (CacheStats, error) {
	items := BuildScene(sc, opts...)
	err := r.DrawScene(ctx, items)
	return SceneStats(items), err
}

// SceneStats sums the statistics of the distinct caches used by items.
func SceneStats(items []SceneItem) CacheStats {
	var total CacheStats
	seen := make(map[*TileCache]bool)
	for _, item := range items {
		c := item.Attr.Cache()
		if seen[c] {
			continue
		}
		seen[c] = true
		total = total.Add(c.Stats())
	}
	return total
}
