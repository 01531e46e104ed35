package perlin

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Deterministic(t *testing.T) {
	a := Default()
	b := Default()

	for i := 0; i < 64; i++ {
		x := float64(i) / 8
		y := float64(i%7)/8 + 1234
		assert.Equal(t, a.Sample(x, y), b.Sample(x, y))
	}
}

func TestField_SingleOctaveRange(t *testing.T) {
	f := Default()
	for bx := 0; bx < 16; bx++ {
		for by := 0; by < 16; by++ {
			v := f.Sample(float64(bx)/8, float64(by)/8+float64(bx*977))
			require.False(t, math.IsNaN(v))
			assert.LessOrEqual(t, v, 1.0)
			assert.GreaterOrEqual(t, v, -1.0)
		}
	}
}

func TestField_Coherent(t *testing.T) {
	f := Default()
	// Neighbouring samples at a fine step differ by far less than the range.
	for i := 0; i < 100; i++ {
		x := float64(i) / 100
		d := math.Abs(f.Sample(x, 0.3) - f.Sample(x+0.01, 0.3))
		assert.Less(t, d, 0.2, "x=%g", x)
	}
}

func TestField_ConcurrentSampling(t *testing.T) {
	f := Default()
	want := f.Sample(0.375, 42.125)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, f.Sample(0.375, 42.125))
			}
		}()
	}
	wg.Wait()
}

func TestParams_Validate(t *testing.T) {
	_, err := New(Params{Alpha: 2, Beta: 2, Octaves: 0})
	assert.Error(t, err)

	_, err = New(Params{Alpha: 0, Beta: 2, Octaves: 1})
	assert.Error(t, err)

	f, err := New(Params{Alpha: 2, Beta: 2, Octaves: 3, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, "perlin(alpha=2,beta=2,octaves=3,seed=7)", f.String())
}
