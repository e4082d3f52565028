package topsis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrInvalidWeights       = errors.New("invalid weights")
	ErrDegenerateColumn     = errors.New("degenerate column")
	ErrEmptyInput           = errors.New("empty input")
	ErrNonFinite            = errors.New("non-finite value")
	ErrDuplicateCriterion   = errors.New("duplicate criterion")
	ErrDuplicateAlternative = errors.New("duplicate alternative")
	ErrUnknownNormalization = errors.New("unknown normalization")
	ErrUnknownOrientation   = errors.New("unknown orientation")
)

// DegenerateColumnError lists the criteria whose column had zero norm or zero
// range under the selected normalization. It is informational: scoring still
// completes with those columns neutralised.
type DegenerateColumnError struct {
	Columns       []string
	Normalization Normalization
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("%s normalization: degenerate column(s) %s", e.Normalization, strings.Join(e.Columns, ", "))
}

func (e *DegenerateColumnError) Unwrap() error { return ErrDegenerateColumn }
