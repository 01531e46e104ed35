package determinant

import (
	"errors"
	"fmt"
)

// ErrNotMatrix is returned for well-formed input that is not a list of rows.
var ErrNotMatrix = errors.New("Input is not a matrix")

// ParseError reports input that cannot be read as a matrix literal.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse error: '%s'", e.Detail)
}

// CalculationError reports a matrix whose determinant is undefined.
type CalculationError struct {
	Detail string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("Calculation error: '%s'", e.Detail)
}
