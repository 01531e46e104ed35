// Package determinant computes exact determinants of rational matrices
// written as nested list literals such as "[[1, 2], [3, 4]]".
package determinant

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MaxDimension bounds the matrix side length.
	MaxDimension = 16
	// MaxEntryLength bounds the text of a single entry.
	MaxEntryLength = 64
	// MaxExponent bounds the magnitude of an entry's exponent, as in 1e100.
	MaxExponent = 100
)

// Matrix is a row-major square matrix of rationals.
type Matrix [][]*big.Rat

// Compute parses source and returns its determinant in lowest terms,
// e.g. "-2" or "1/3".
func Compute(source string) (string, error) {
	m, err := Parse(source)
	if err != nil {
		return "", err
	}
	det, err := m.Determinant()
	if err != nil {
		return "", err
	}
	return det.RatString(), nil
}

// Parse reads a matrix literal. Entries accept anything big.Rat.SetString
// does: integers, fractions and decimals.
func Parse(source string) (Matrix, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ParseError{Detail: "empty input"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &ParseError{Detail: "expected a single expression"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, ErrNotMatrix
	}

	m := make(Matrix, 0, len(root.Content))
	for i, rowNode := range root.Content {
		if rowNode.Kind != yaml.SequenceNode {
			return nil, ErrNotMatrix
		}
		row := make([]*big.Rat, 0, len(rowNode.Content))
		for j, cell := range rowNode.Content {
			if cell.Kind != yaml.ScalarNode {
				return nil, &ParseError{Detail: fmt.Sprintf("entry (%d, %d) is not a number", i+1, j+1)}
			}
			r, err := parseEntry(cell.Value)
			if err != nil {
				return nil, &ParseError{Detail: fmt.Sprintf("entry (%d, %d) %s", i+1, j+1, err)}
			}
			row = append(row, r)
		}
		m = append(m, row)
	}
	return m, nil
}

// parseEntry reads one rational. Entries are bounded in length and exponent
// so elimination cost stays proportional to the input size.
func parseEntry(value string) (*big.Rat, error) {
	lit := strings.TrimSpace(value)
	if len(lit) > MaxEntryLength {
		return nil, fmt.Errorf("is longer than %d characters", MaxEntryLength)
	}
	exp, ok := exponent(lit)
	if !ok || exp > MaxExponent || exp < -MaxExponent {
		return nil, fmt.Errorf("%q has an exponent beyond ±%d", lit, MaxExponent)
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", value)
	}
	return r, nil
}

// exponent returns the e or p exponent of a big.Rat literal, or 0 without
// one. ok is false when the exponent does not fit an int.
func exponent(lit string) (exp int, ok bool) {
	if strings.Contains(lit, "/") {
		// Fractions are two plain integers.
		return 0, true
	}
	body := strings.TrimLeft(lit, "+-")
	markers := "eEpP"
	if len(body) > 1 && body[0] == '0' && strings.ContainsRune("xXbBoO", rune(body[1])) {
		// e and E are hex digits here.
		markers = "pP"
	}
	i := strings.IndexAny(body, markers)
	if i < 0 {
		return 0, true
	}
	n, err := strconv.Atoi(body[i+1:])
	if err != nil {
		// Not a valid exponent; SetString rejects it when the digits are bad.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false
		}
		return 0, true
	}
	return n, true
}

// Determinant runs exact Gaussian elimination on a copy of m.
func (m Matrix) Determinant() (*big.Rat, error) {
	n := len(m)
	switch {
	case n == 0:
		return nil, &CalculationError{Detail: "matrix is empty"}
	case n > MaxDimension:
		return nil, &CalculationError{Detail: fmt.Sprintf("matrix exceeds %d rows", MaxDimension)}
	}
	for i, row := range m {
		if len(row) != n {
			return nil, &CalculationError{Detail: fmt.Sprintf("matrix is not square: row %d has %d entries, want %d", i+1, len(row), n)}
		}
	}

	a := make([][]*big.Rat, n)
	for i, row := range m {
		a[i] = make([]*big.Rat, n)
		for j, v := range row {
			a[i][j] = new(big.Rat).Set(v)
		}
	}

	det := big.NewRat(1, 1)
	tmp := new(big.Rat)
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if a[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return new(big.Rat), nil
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			det.Neg(det)
		}

		p := a[col][col]
		det.Mul(det, p)
		for r := col + 1; r < n; r++ {
			if a[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Quo(a[r][col], p)
			for c := col; c < n; c++ {
				tmp.Mul(factor, a[col][c])
				a[r][c].Sub(a[r][c], tmp)
			}
		}
	}
	return det, nil
}
