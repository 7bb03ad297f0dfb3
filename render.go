// Package svgrender draws vector paths under SVG-style paint attributes and
// caches rasterized coverage tiles between draw calls.
//
// A [PathAttributes] record carries the paint, transform and visibility
// state of one path, together with a bounded [TileCache]. When a path is
// drawn, the record's transform is quantized into a [TileKey]; on a cache
// miss the path is rasterized and the resulting tiles are stored, on a hit
// the stored tiles are composited again without touching the geometry.
package svgrender

import (
	"context"
	"image"
	"math"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
)

const defaultBandHeight = 64

// Renderer composites paths into a destination image.
type Renderer struct {
	dst        draw.Image
	rasterize  RasterizeFunc
	workers    int
	bandHeight int
}

// RendererOption configures a [Renderer].
type RendererOption func(*Renderer)

// WithRasterizer replaces the default rasterizer.
func WithRasterizer(f RasterizeFunc) RendererOption {
	return func(r *Renderer) {
		if f != nil {
			r.rasterize = f
		}
	}
}

// WithWorkers sets the maximal number of bands rendered concurrently by
// [Renderer.DrawBanded] and [Renderer.DrawScene]. Values ≤ 0 select
// GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		r.workers = n
	}
}

// WithBandHeight sets the height in pixels of the bands used for
// concurrent rendering.
func WithBandHeight(h int) RendererOption {
	return func(r *Renderer) {
		if h <= 0 {
			h = defaultBandHeight
		}
		r.bandHeight = h
	}
}

// NewRenderer returns a renderer drawing into dst.
func NewRenderer(dst draw.Image, opts ...RendererOption) *Renderer {
	r := &Renderer{
		dst:        dst,
		rasterize:  Rasterize,
		workers:    runtime.GOMAXPROCS(0),
		bandHeight: defaultBandHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DrawPath draws p with the attributes in attr: first the fill pass, then
// the stroke pass.
func (r *Renderer) DrawPath(p path.Path, attr *PathAttributes) {
	r.drawClipped(p, attr, r.dst.Bounds())
}

// SceneItem is one path of a scene together with its attributes.
type SceneItem struct {
	Path path.Path
	Attr *PathAttributes
}

// DrawBanded draws p like [Renderer.DrawPath], but splits the destination
// into horizontal bands which are drawn concurrently. All bands use the
// tile cache of attr.
func (r *Renderer) DrawBanded(ctx context.Context, p path.Path, attr *PathAttributes) error {
	return r.DrawScene(ctx, []SceneItem{{Path: p, Attr: attr}})
}

// DrawScene draws all items in order. The destination is split into
// horizontal bands which are drawn concurrently; within each band the items
// are drawn in order. Drawing stops early if ctx is cancelled, in which
// case the context's error is returned.
func (r *Renderer) DrawScene(ctx context.Context, items []SceneItem) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	bounds := r.dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += r.bandHeight {
		band := image.Rect(bounds.Min.X, y, bounds.Max.X, min(y+r.bandHeight, bounds.Max.Y))
		g.Go(func() error {
			for _, item := range items {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.drawClipped(item.Path, item.Attr, band)
			}
			return nil
		})
	}
	return g.Wait()
}

// minTileBudget is the pixel count up to which tiles are always cached.
// Larger tiles are cached only if they are no larger than the destination.
const minTileBudget = 1 << 20

// drawClipped draws p, restricted to the device rectangle clip.
func (r *Renderer) drawClipped(p path.Path, attr *PathAttributes, clip image.Rectangle) {
	if !attr.Visible() || !attr.Fills() && !attr.Strokes() {
		return
	}

	cache := attr.Cache()
	extent := PathExtent(p)
	key := attr.TileKey(extent)
	if key == InvalidTileKey {
		Logger().Debug("skipping path with non-finite geometry", "index", attr.Index)
		return
	}
	tm, offset := TileTransform(attr.Transform, cache.SamplingRate(), extent)
	key = contentKey(key, p, attr)

	var tiles TilePair
	if r.oversized(p, tm, attr) {
		// A tile of the whole path would not fit into memory, or would
		// mostly lie outside the destination. Such tiles are rasterized
		// for the visible window only and never cached.
		tiles = r.rasterize(p, tm, attr, clip.Sub(offset))
		Logger().Debug("oversized path", "index", attr.Index, "key", key)
	} else {
		var hit bool
		tiles, hit = cache.GetOrRasterize(key, func() TilePair {
			return r.rasterize(p, tm, attr, image.Rectangle{})
		})
		Logger().Debug("tile lookup", "index", attr.Index, "key", key, "hit", hit)
	}

	if attr.Fills() {
		src := paintSource(&attr.FillGradient, attr.FillColor, attr.Transform, attr.Opacity*attr.FillOpacity)
		r.composite(tiles.Fill, offset, src, clip)
	}
	if attr.Strokes() {
		src := paintSource(&attr.StrokeGradient, attr.StrokeColor, attr.Transform, attr.Opacity*attr.StrokeOpacity)
		r.composite(tiles.Stroke, offset, src, clip)
	}
}

// oversized reports whether the tiles of p under the tile transform tm may
// exceed both minTileBudget and the size of the destination. The estimate
// uses the control points of the path, widened by the largest distance a
// stroke outline can reach from the path.
func (r *Renderer) oversized(p path.Path, tm matrix.Matrix, attr *PathAttributes) bool {
	box := p.Transform(tm).BBox()
	if attr.Strokes() {
		// Frobenius norm, an upper bound for the stretch of tm
		scale := math.Sqrt(tm[0]*tm[0] + tm[1]*tm[1] + tm[2]*tm[2] + tm[3]*tm[3])
		reach := math.Abs(attr.StrokeWidth) / 2 * max(attr.MiterLimit, math.Sqrt2) * scale
		box.LLx -= reach
		box.LLy -= reach
		box.URx += reach
		box.URy += reach
	}
	pixels := (box.Dx() + 2) * (box.Dy() + 2)

	b := r.dst.Bounds()
	budget := max(float64(b.Dx())*float64(b.Dy()), minTileBudget)
	return !(pixels <= budget)
}

// composite paints src through the coverage tile, shifted by offset.
func (r *Renderer) composite(tile *image.Alpha, offset image.Point, src image.Image, clip image.Rectangle) {
	if tile == nil {
		return
	}
	area := tile.Rect.Add(offset).Intersect(clip).Intersect(r.dst.Bounds())
	if area.Empty() {
		return
	}
	draw.DrawMask(r.dst, area, src, area.Min, tile, area.Min.Sub(offset), draw.Over)
}
