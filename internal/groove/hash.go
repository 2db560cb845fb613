package groove

import "math"

// HashFunc maps a real number to a deterministic pseudo-random value in
// [0, 1). It is plain arithmetic, not a security primitive: the point is
// bit-for-bit reproducibility across runs, not unpredictability.
type HashFunc func(float64) float64

// DefaultHash is the sine-based pattern generator used for groove jitter:
// a scaled, offset sine pushed through a large multiplier and taken
// modulo 1.
func DefaultHash(v float64) float64 {
	return math.Mod(math.Abs(math.Sin(v*127.1+311.7)*43758.5453), 1)
}

// ZeroHash always returns 0.5, which cancels the centered jitter terms.
// Useful for asserting pure ring geometry.
func ZeroHash(float64) float64 {
	return 0.5
}
