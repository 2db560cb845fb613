// Package groove synthesizes the height field of a vinyl-record surface:
// concentric, noise-perturbed grooves around wrapped basis centers, with
// flat separator bands at fixed ring intervals and a flat label area in
// the middle of each disc.
package groove

import (
	"math"

	"github.com/Faultbox/vinylbake/pkg/vmath"
)

// Params holds every constant of the synthesizer. A zero Hash falls back
// to DefaultHash.
type Params struct {
	// Size is the edge length of the square texel grid.
	Size int
	// UVSpan is the extent of the UV space the grid maps onto.
	UVSpan float64
	// DiscRadius is the outer radius of a record disc in UV units.
	DiscRadius float64
	// RingCount is the number of groove rings between disc center and rim.
	RingCount int
	// GrooveWidth is the nominal groove width as a fraction of one ring.
	GrooveWidth float64
	// GrooveDepth is the peak height of an ordinary groove.
	GrooveDepth float64
	// SeparatorInterval inserts a separator band every N rings.
	SeparatorInterval int
	// SeparatorWidthMultiplier widens separator bands relative to GrooveWidth.
	SeparatorWidthMultiplier float64
	// SeparatorDepth is the flat height of separator bands and the label.
	SeparatorDepth float64
	// InnerLabelGuard is the normalized radius below which the disc is a
	// flat label with no grooves.
	InnerLabelGuard float64
	// SampleOffsets are the sub-texel offsets of the antialiasing grid,
	// applied on both axes.
	SampleOffsets [3]float64
	// Centers are the basis centers the rings are computed around.
	Centers []vmath.Vec2
	// Hash supplies the deterministic jitter term. Tests may substitute a
	// zero-jitter variant for geometric assertions.
	Hash HashFunc
}

// DefaultParams returns the reference bake constants: a 2048px grid over a
// 10x10 UV space with two discs stacked half a span apart.
func DefaultParams() Params {
	return Params{
		Size:                     2048,
		UVSpan:                   10.0,
		DiscRadius:               2.6,
		RingCount:                200,
		GrooveWidth:              0.5,
		GrooveDepth:              1.0,
		SeparatorInterval:        48,
		SeparatorWidthMultiplier: 2.5,
		SeparatorDepth:           0.45,
		InnerLabelGuard:          0.445,
		SampleOffsets:            [3]float64{0.15, 0.5, 0.85},
		Centers: []vmath.Vec2{
			{X: 2.5, Y: 2.5},
			{X: 2.5, Y: 7.5},
		},
		Hash: DefaultHash,
	}
}

// MaxHeight returns the upper bound of the height field.
func (p Params) MaxHeight() float64 {
	return math.Max(p.GrooveDepth, p.SeparatorDepth)
}

// Period returns the vertical tiling period in UV units. Two centers offset
// by half the span repeat the pattern twice per texture.
func (p Params) Period() float64 {
	return p.UVSpan / 2
}

// Synthesizer evaluates groove heights at texel positions. It is immutable
// after construction and safe for concurrent use.
type Synthesizer struct {
	p Params
}

// New creates a Synthesizer. A nil Hash in p is replaced with DefaultHash.
func New(p Params) *Synthesizer {
	if p.Hash == nil {
		p.Hash = DefaultHash
	}
	return &Synthesizer{p: p}
}

// closestCenter finds the basis center nearest to (u, v), wrapping each
// center's V-coordinate modulo the UV span so discs repeat vertically.
// It returns the distance, the wrapped center position, and the fold of
// the wrapped V into the tiling period.
func (s *Synthesizer) closestCenter(u, v float64) (dist float64, center vmath.Vec2, foldV float64) {
	query := vmath.Vec2{X: u, Y: v}
	dist = math.Inf(1)
	for _, base := range s.p.Centers {
		offset := math.Round((v-base.Y)/s.p.UVSpan) * s.p.UVSpan
		wrapped := vmath.Vec2{X: base.X, Y: base.Y + offset}
		d := query.Distance(wrapped)
		// Equidistant points sit on the seam between two disc copies;
		// breaking the tie by wrapped position keeps the choice
		// consistent across periods.
		if d < dist || (d == dist && wrapped.Y < center.Y) {
			dist = d
			center = wrapped
		}
	}

	// Fold the winning center's V into the tiling period so both disc
	// copies bake identical ring patterns; anything fed into the noise
	// terms must be invariant under a shift by one period, or the
	// texture stops tiling exactly.
	foldV = math.Mod(center.Y, s.p.Period())
	if foldV < 0 {
		foldV += s.p.Period()
	}
	return dist, center, foldV
}

// Height returns the groove height at the sub-pixel position (px, py).
// Pure and deterministic: the result depends only on the arguments and
// Params, so texels may be evaluated in any order or concurrently.
func (s *Synthesizer) Height(px, py float64) float64 {
	size := float64(s.p.Size)
	u := px / size * s.p.UVSpan
	v := (1 - py/size) * s.p.UVSpan

	dist, center, foldV := s.closestCenter(u, v)
	if dist > s.p.DiscRadius {
		return 0
	}

	radius := math.Min(dist/s.p.DiscRadius, 1)
	if radius < s.p.InnerLabelGuard {
		return s.p.SeparatorDepth
	}

	// Low-frequency radial warp keeps the rings from being perfect circles.
	warp := 0.02*math.Sin(radius*80+center.X) +
		0.013*math.Sin(radius*200+foldV)
	warped := clamp(radius+warp, 0, 1)

	angle := vmath.Vec2{X: u, Y: v}.Angle(center)
	noise := 0.08*math.Sin(angle*16+center.X*7) +
		0.03*math.Sin(radius*180+foldV*11) +
		(s.p.Hash(math.Floor(radius*float64(s.p.RingCount))+center.X*17)-0.5)*0.15
	maxOffset := s.p.GrooveWidth * 0.18
	noise = clamp(noise, -maxOffset, maxOffset)

	basePos := warped * float64(s.p.RingCount)
	track := int(math.Floor(basePos))
	separator := track%s.p.SeparatorInterval == 0

	// Separator bands stay perfectly regular: no rotation noise.
	pos := basePos
	if !separator {
		pos += noise
	}
	phase := math.Mod(math.Mod(pos, 1)+1, 1)

	if separator {
		if phase < s.p.GrooveWidth*s.p.SeparatorWidthMultiplier {
			return s.p.SeparatorDepth
		}
		return 0
	}

	widthFactor := 0.65 + s.p.Hash(float64(track)*19.19+foldV*23.3)*0.55
	effectiveWidth := s.p.GrooveWidth * widthFactor
	if phase >= effectiveWidth {
		return 0
	}

	// Triangular profile: zero at both groove edges, peak at mid-phase.
	local := phase / effectiveWidth
	return (1 - math.Abs(local*2-1)) * s.p.GrooveDepth
}

// Sample returns the antialiased height of texel (x, y): the mean of
// Height over the sub-texel offset grid, clamped so sampling never reads
// past the last row or column.
func (s *Synthesizer) Sample(x, y int) float64 {
	edge := float64(s.p.Size - 1)
	var sum float64
	for _, oy := range s.p.SampleOffsets {
		sy := math.Min(edge, float64(y)+oy)
		for _, ox := range s.p.SampleOffsets {
			sum += s.Height(math.Min(edge, float64(x)+ox), sy)
		}
	}
	n := len(s.p.SampleOffsets)
	return sum / float64(n*n)
}

// Field materializes the full height field as a row-major Size*Size slice.
// Rows in [rowStart, rowEnd) are written into dst, which must have
// Size*Size elements; disjoint row ranges may be filled concurrently.
func (s *Synthesizer) Field(dst []float64, rowStart, rowEnd int) {
	for y := rowStart; y < rowEnd; y++ {
		row := dst[y*s.p.Size : (y+1)*s.p.Size]
		for x := range row {
			row[x] = s.Sample(x, y)
		}
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
