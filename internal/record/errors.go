package record

import "errors"

// Error classification: invalid input, storage fault, format fault, and
// wrong size. Out-of-range sets are not an error; Mark silently ignores
// them and returns false.
//
// Callers classify errors with errors.Is.
var (
	// ErrInvalidInput indicates a malformed set or configuration: not
	// strictly ascending, non-positive values, a fixed tail that is not
	// strictly ascending or does not lie above maxM, or an oversized fixed
	// segment.
	ErrInvalidInput = errors.New("record: invalid input")

	// ErrStorage indicates an allocation or I/O failure.
	ErrStorage = errors.New("record: storage fault")

	// ErrFormat indicates the binary file's header could not be parsed, or
	// its body length disagreed with the header.
	ErrFormat = errors.New("record: format fault")

	// ErrWrongSize indicates an imported record's full set size disagreed
	// with the size the caller initialized the record with.
	ErrWrongSize = errors.New("record: wrong size")
)
