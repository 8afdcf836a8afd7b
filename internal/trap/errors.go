package trap

import "errors"

// ErrDimensionMismatch indicates index-misaligned axis/curve inputs.
var ErrDimensionMismatch = errors.New("trap: axis and curve lengths differ")

// ConfigurationError indicates the caller supplied insufficient information
// to resolve the structure geometry. It is fatal to the call that raised it;
// callers must not retry with the same inputs.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return "trap: " + e.msg }

var (
	// ErrMissingEdge is raised in no-structure mode without an explicit edge.
	ErrMissingEdge = &ConfigurationError{"no surface modeled: an explicit edge position is required"}

	// ErrAmbiguousGeometry is raised when the proximity curve carries more
	// than two singularities.
	ErrAmbiguousGeometry = &ConfigurationError{"ambiguous structure geometry: more than two proximity singularities"}
)

// IsConfiguration reports whether err is a caller contract violation.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
