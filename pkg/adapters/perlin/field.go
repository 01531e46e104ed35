// Package perlin backs ports.NoiseField with github.com/aquilax/go-perlin.
package perlin

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// Params configures the Perlin generator.
// Alpha is the weight divisor between octaves, Beta the frequency multiplier.
type Params struct {
	Alpha   float64 `mapstructure:"alpha" yaml:"alpha" json:"alpha"`
	Beta    float64 `mapstructure:"beta" yaml:"beta" json:"beta"`
	Octaves int32   `mapstructure:"octaves" yaml:"octaves" json:"octaves"`
	Seed    int64   `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// DefaultParams is a single-octave field with a fixed table seed of 0.
func DefaultParams() Params {
	return Params{Alpha: 2, Beta: 2, Octaves: 1, Seed: 0}
}

// Validate checks the parameters accepted by the generator.
func (p Params) Validate() error {
	if p.Octaves < 1 {
		return fmt.Errorf("perlin: octaves must be >= 1, got %d", p.Octaves)
	}
	if p.Alpha <= 0 || p.Beta <= 0 {
		return fmt.Errorf("perlin: alpha and beta must be positive, got %g/%g", p.Alpha, p.Beta)
	}
	return nil
}

// Field is a Perlin noise field. The permutation and gradient tables are
// built once from Params.Seed; sampling only reads them.
type Field struct {
	params Params
	noise  *perlin.Perlin
}

// New builds a field from p.
func New(p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Field{
		params: p,
		noise:  perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, p.Seed),
	}, nil
}

// Default returns a field built from DefaultParams.
func Default() *Field {
	f, _ := New(DefaultParams())
	return f
}

// Sample returns the noise value at (x, y).
// Multi-octave fields may overshoot [-1, 1] slightly; quantization clamps.
func (f *Field) Sample(x, y float64) float64 {
	return f.noise.Noise2D(x, y)
}

// Params returns the construction parameters.
func (f *Field) Params() Params {
	return f.params
}

func (f *Field) String() string {
	return fmt.Sprintf("perlin(alpha=%g,beta=%g,octaves=%d,seed=%d)",
		f.params.Alpha, f.params.Beta, f.params.Octaves, f.params.Seed)
}
