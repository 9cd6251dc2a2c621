package wire

import (
	"errors"
	"fmt"
)

// ErrFormat matches every FormatError.
var ErrFormat = errors.New("wire: malformed record")

// FormatError reports a record that does not carry the tokens a decoder needs.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("wire: line %d: %s", e.Line, e.Reason)
	}
	return "wire: " + e.Reason
}

// Is lets errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
