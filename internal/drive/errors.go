package drive

import "errors"

// ErrInvalidInput is returned for invalid driver arguments (e.g. zero
// threads, or a progress-cell slice whose length disagrees with thread
// count).
var ErrInvalidInput = errors.New("drive: invalid input")
