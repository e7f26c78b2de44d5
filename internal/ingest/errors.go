package ingest

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingInput  = errors.New("missing input resource")
	ErrMalformedLine = errors.New("malformed line")
)

// LineError reports the first line that could not be parsed.
type LineError struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: line %d: %s: %q", ErrMalformedLine, e.Line, e.Reason, e.Text)
}

func (e *LineError) Unwrap() error { return ErrMalformedLine }
