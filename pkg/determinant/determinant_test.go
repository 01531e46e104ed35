package determinant

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"1x1", "[[7]]", "7"},
		{"2x2", "[[1, 2], [3, 4]]", "-2"},
		{"No spaces", "[[1,2],[3,4]]", "-2"},
		{"Identity", "[[1,0,0],[0,1,0],[0,0,1]]", "1"},
		{"Singular", "[[1,2],[2,4]]", "0"},
		{"Zero column", "[[0,1],[0,5]]", "0"},
		{"Needs pivot", "[[0,1],[1,0]]", "-1"},
		{"Fractions", "[[1/2, 0], [0, 2/3]]", "1/3"},
		{"Decimals", "[[0.5, 1], [0.25, 1]]", "1/4"},
		{"Negative", "[[-1/2, 3], [1, 4]]", "-5"},
		{"3x3", "[[2, -3, 1], [2, 0, -1], [1, 4, 5]]", "49"},
		{"Multiline", "[\n  [6, 1, 1],\n  [4, -2, 5],\n  [2, 8, 7]\n]", "-306"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_NotMatrix(t *testing.T) {
	for _, in := range []string{"5", "{a: 1}", "[1, 2]", "hello", "[[1], 2]"} {
		_, err := Compute(in)
		assert.ErrorIs(t, err, ErrNotMatrix, in)
	}
	_, err := Compute("5")
	assert.EqualError(t, err, "Input is not a matrix")
}

func TestCompute_ParseError(t *testing.T) {
	for _, in := range []string{"", "   ", "[[1, 2], [3, 4]", "[[1, x], [3, 4]]", "[[1, [2]], [3, 4]]", "[[1, 2]] [[3]]"} {
		_, err := Compute(in)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "%q", in)
	}

	_, err := Compute("[[a]]")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Parse error: '"))
}

func TestCompute_CalculationError(t *testing.T) {
	for _, in := range []string{"[]", "[[]]", "[[1, 2]]", "[[1, 2], [3]]", "[[1], [2]]"} {
		_, err := Compute(in)
		var cerr *CalculationError
		assert.ErrorAs(t, err, &cerr, "%q", in)
	}

	_, err := Compute("[[1, 2]]")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Calculation error: '"))
}

func TestDeterminant_TooLarge(t *testing.T) {
	n := MaxDimension + 1
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]*big.Rat, n)
		for j := range m[i] {
			m[i][j] = new(big.Rat)
		}
	}
	_, err := m.Determinant()
	var cerr *CalculationError
	assert.ErrorAs(t, err, &cerr)
}

func TestDeterminant_DoesNotMutate(t *testing.T) {
	m, err := Parse("[[0, 1], [2, 3]]")
	require.NoError(t, err)

	det, err := m.Determinant()
	require.NoError(t, err)
	assert.Equal(t, "-2", det.RatString())
	assert.Equal(t, "0", m[0][0].RatString())
	assert.Equal(t, "2", m[1][0].RatString())
}

func TestCompute_EntryLimits(t *testing.T) {
	t.Run("Exponent within bounds", func(t *testing.T) {
		got, err := Compute("[[1e100, 0], [0, 1e-100]]")
		require.NoError(t, err)
		assert.Equal(t, "1", got)
	})

	oversized := []string{
		"[[3.42e999999, 1], [1, 1]]",
		"[[1e101]]",
		"[[1E-101]]",
		"[[1e99999999999999999999]]",
		"[[0x1p200]]",
		"[[" + strings.Repeat("9", MaxEntryLength+1) + "]]",
	}
	for _, in := range oversized {
		_, err := Compute(in)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, "%q", in)
	}

	t.Run("Hex digits are not exponents", func(t *testing.T) {
		got, err := Compute("[[0x1e]]")
		require.NoError(t, err)
		assert.Equal(t, "30", got)
	})
}

func TestCompute_LargeMatrixOfLargeEntries(t *testing.T) {
	n := MaxDimension
	rows := make([]string, n)
	for i := range rows {
		cells := make([]string, n)
		for j := range cells {
			cells[j] = "1e100"
			if i == j {
				cells[j] = "2e100"
			}
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	got, err := Compute("[" + strings.Join(rows, ", ") + "]")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
