// Package normalmap converts a height field into a tangent-space normal
// map stored as a flat RGBA8 buffer.
package normalmap

import "math"

// Encode derives per-texel normals from a row-major size*size height field
// using central differences and packs them into an RGBA8 buffer. Neighbor
// lookups clamp at the image border rather than wrapping, which leaves a
// seam at the top and bottom edges of a vertically tiling field; callers
// rely on that lookup staying border-clamped.
//
// Rows in [rowStart, rowEnd) are written into dst, which must hold
// size*size*4 bytes. The field must be fully materialized before the
// first call: every texel reads its four axis-neighbors.
func Encode(dst []byte, field []float64, size int, strength float64, rowStart, rowEnd int) {
	for y := rowStart; y < rowEnd; y++ {
		for x := 0; x < size; x++ {
			left := field[y*size+maxInt(x-1, 0)]
			right := field[y*size+minInt(x+1, size-1)]
			top := field[maxInt(y-1, 0)*size+x]
			bottom := field[minInt(y+1, size-1)*size+x]

			dx := (right - left) * strength
			dy := (bottom - top) * strength
			dz := 1.0

			// The +1 Z term makes a zero length impossible, but a
			// degenerate vector must never divide by zero.
			length := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if length == 0 {
				length = 1
			}

			di := (y*size + x) * 4
			dst[di] = packComponent(dx / length)
			dst[di+1] = packComponent(dy / length)
			dst[di+2] = packComponent(dz / length)
			dst[di+3] = 255
		}
	}
}

// EncodeAll is Encode over every row, allocating the buffer.
func EncodeAll(field []float64, size int, strength float64) []byte {
	dst := make([]byte, size*size*4)
	Encode(dst, field, size, strength, 0, size)
	return dst
}

// packComponent maps a unit-vector component from [-1, 1] to [0, 255].
func packComponent(c float64) byte {
	return byte(math.Round((c*0.5 + 0.5) * 255))
}

// UnpackComponent maps an 8-bit channel back to [-1, 1]. The inverse of
// packComponent up to quantization; exposed for tests and tooling.
func UnpackComponent(b byte) float64 {
	return float64(b)/255*2 - 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
