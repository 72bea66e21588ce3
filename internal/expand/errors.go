package expand

import "errors"

// ErrInvalidInput is returned when the input set is not strictly ascending
// or contains a non-positive value.
var ErrInvalidInput = errors.New("expand: invalid input")
