package framestore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is returned for a frame index outside [0, FrameCount()).
	ErrInvalidIndex = errors.New("framestore: invalid frame index")
	// ErrDecode matches every *DecodeError with errors.Is.
	ErrDecode = errors.New("framestore: decode failed")
	ErrClosed = errors.New("framestore: closed")
)

// DecodeError reports a frame whose file could not be read, decoded or
// uploaded.
type DecodeError struct {
	Index int
	Path  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("framestore: frame %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

func invalidIndex(index, count int) error {
	return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, index, count)
}
