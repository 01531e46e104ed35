package ports

// NoiseField is a coherent two-dimensional noise function.
//
// Implementations must be deterministic for a fixed internal state, return
// values in [-1, 1] and be safe for concurrent use once constructed.
type NoiseField interface {
	Sample(x, y float64) float64
}

// NoiseFunc adapts a plain function to NoiseField.
type NoiseFunc func(x, y float64) float64

// Sample calls f(x, y).
func (f NoiseFunc) Sample(x, y float64) float64 {
	return f(x, y)
}
