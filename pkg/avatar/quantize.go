package avatar

import "math"

// Quantize maps a noise sample in [-1, 1] to an index in [0, n).
//
// Buckets are (n-1)/2 wide per unit of input. The result is clamped so that
// boundary rounding or a noise source that overshoots its range can never
// index outside the palette. NaN maps to 0.
func Quantize(v float64, n int) int {
	if n <= 1 || math.IsNaN(v) {
		return 0
	}
	offset := float64(n-1) / 2
	raw := math.Floor((v + 1) * offset)
	switch {
	case raw < 0:
		return 0
	case raw > float64(n-1):
		return n - 1
	}
	return int(raw)
}
