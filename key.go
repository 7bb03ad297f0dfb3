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
	"encoding/binary"
	"hash"
	"hash/fnv"
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
)

// DefaultSamplingRate is the number of quantization steps per device pixel.
// Larger values reproduce the exact transform more closely, but reduce the
// number of cache hits.
const DefaultSamplingRate = 8

// TileKey identifies a cached tile pair. Transforms which differ by less
// than one quantization step share a key.
type TileKey uint64

// InvalidTileKey is the key of every transform whose coefficients, or
// whose path extent, are not finite or too large to be quantized. Paths
// with this key are not drawn.
const InvalidTileKey TileKey = math.MaxUint64

const (
	// maxBucket bounds the bucket indices of the linear coefficients.
	maxBucket = 1 << 53

	// maxOffset bounds the integer device offset.
	maxOffset = 1 << 30
)

// quantized holds the bucket indices of one transform.
type quantized struct {
	linear [4]int64 // a, b, c, d in units of the linear step
	phase  [2]int64 // sub-pixel translation in units of 1/samplingRate
	offset image.Point
	valid  bool
}

// quantize splits m into bucket indices and an integer device offset.
//
// Each coefficient of the linear part (rotation, scale and shear) is
// rounded to a multiple of linearStep. For a path within distance extent
// of the origin this moves every device point by at most half a sub-pixel
// step per coefficient. The translation is split
// into an integer pixel offset, which is applied when the tile is
// composited, and a sub-pixel phase which is floored to samplingRate
// buckets per axis.
func quantize(m matrix.Matrix, samplingRate int, extent float64) quantized {
	if samplingRate <= 0 {
		samplingRate = DefaultSamplingRate
	}
	rate := float64(samplingRate)

	var q quantized
	if !(extent*rate <= math.MaxFloat64) {
		return q
	}
	step := linearStep(rate, extent)
	for i, v := range m[:4] {
		b := math.Round(v / step)
		if !(math.Abs(b) <= maxBucket) {
			return q
		}
		q.linear[i] = int64(b)
	}
	for i, t := range m[4:6] {
		if !(math.Abs(t) <= maxOffset) {
			return q
		}
		whole := math.Floor(t)
		bucket := int64(math.Floor((t - whole) * rate))
		if bucket >= int64(samplingRate) { // rounding at the upper end
			bucket = int64(samplingRate) - 1
		}
		q.phase[i] = bucket
		if i == 0 {
			q.offset.X = int(whole)
		} else {
			q.offset.Y = int(whole)
		}
	}
	q.valid = true
	return q
}

// linearStep returns the quantization step for the linear coefficients:
// the largest power of two not exceeding 1/(rate·extent). Powers of two
// keep integer coefficients, in particular the identity, exact.
func linearStep(rate, extent float64) float64 {
	return math.Ldexp(1, -int(math.Ceil(math.Log2(rate*max(extent, 1)))))
}

// key packs the bucket indices into one integer. The integer offset is not
// part of the key.
func (q quantized) key() TileKey {
	if !q.valid {
		return InvalidTileKey
	}
	var buf [8 * 6]byte
	for i, v := range q.linear {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(v))
	}
	binary.LittleEndian.PutUint64(buf[32:], uint64(q.phase[0]))
	binary.LittleEndian.PutUint64(buf[40:], uint64(q.phase[1]))

	h := fnv.New64a()
	_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	return validKey(h.Sum64())
}

// QuantizeTransform returns the cache key for drawing a path with the given
// transform. The extent is the largest distance of the path from the user
// space origin (see [PathExtent]); values below 1 are treated as 1. For
// extent 1 and the default sampling rate the linear coefficients are
// quantized in steps of 1/8. A samplingRate ≤ 0 selects
// [DefaultSamplingRate]. Non-finite input gives [InvalidTileKey].
func QuantizeTransform(m matrix.Matrix, samplingRate int, extent float64) TileKey {
	return quantize(m, samplingRate, extent).key()
}

// TileTransform returns the representative transform used to rasterize the
// tile for m, together with the integer device offset at which the tile
// must be composited. All transforms with the same key have the same tile
// transform. For transforms with key [InvalidTileKey] the result is the
// zero matrix.
func TileTransform(m matrix.Matrix, samplingRate int, extent float64) (matrix.Matrix, image.Point) {
	if samplingRate <= 0 {
		samplingRate = DefaultSamplingRate
	}
	q := quantize(m, samplingRate, extent)
	if !q.valid {
		return matrix.Matrix{}, image.Point{}
	}
	rate := float64(samplingRate)
	step := linearStep(rate, extent)

	var tm matrix.Matrix
	for i, v := range q.linear {
		tm[i] = float64(v) * step
	}
	// lower edge of the phase bucket, so that pixel aligned transforms are
	// reproduced exactly
	tm[4] = float64(q.phase[0]) / rate
	tm[5] = float64(q.phase[1]) / rate
	return tm, q.offset
}

// contentKey combines the transform key k with a digest of the path
// geometry and of the fill and stroke settings of attr. Records which
// share a cache, through [CacheShared] or because one was cloned from the
// other before a field was changed, thus never receive tiles rasterized
// for different geometry or paint passes.
func contentKey(k TileKey, p path.Path, attr *PathAttributes) TileKey {
	if k == InvalidTileKey {
		return k
	}
	d := digest{h: fnv.New64a()}
	d.putUint(uint64(k))

	for cmd, pts := range p {
		d.putUint(uint64(cmd))
		for _, pt := range pts {
			d.putFloat(pt.X)
			d.putFloat(pt.Y)
		}
	}

	var passes uint64
	if attr.Fills() {
		passes |= 1 << uint(attr.FillRule())
	}
	if attr.Strokes() {
		passes |= 4
	}
	d.putUint(passes)
	if attr.Strokes() {
		style := attr.StrokeStyle()
		d.putFloat(style.Width)
		d.putUint(uint64(style.Cap))
		d.putUint(uint64(style.Join))
		d.putFloat(style.MiterLimit)
		d.putUint(uint64(len(style.Dash)))
		for _, v := range style.Dash {
			d.putFloat(v)
		}
		d.putFloat(style.DashPhase)
	}

	return validKey(d.h.Sum64())
}

// validKey converts a hash value into a key different from InvalidTileKey.
func validKey(h uint64) TileKey {
	if TileKey(h) == InvalidTileKey {
		h--
	}
	return TileKey(h)
}

type digest struct {
	h   hash.Hash64
	buf [8]byte
}

func (d *digest) putUint(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	_, _ = d.h.Write(d.buf[:])
}

func (d *digest) putFloat(v float64) {
	d.putUint(math.Float64bits(v))
}
