// Package timecode converts the corpus "mm:ss" subtitle labels into numeric
// second offsets. Labels originate from the trusted static corpus, so a
// malformed label is a data defect, not a runtime condition to recover from.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat reports a label that is not strict "mm:ss".
var ErrFormat = errors.New("invalid time label")

// FormatError carries the offending label alongside ErrFormat.
type FormatError struct {
	Label string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time label %q: want mm:ss", e.Label)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ToSeconds parses a strict "mm:ss" label into whole seconds.
func ToSeconds(label string) (int, error) {
	minutes, seconds, ok := strings.Cut(label, ":")
	if !ok {
		return 0, &FormatError{Label: label}
	}

	m, err := parsePart(minutes)
	if err != nil {
		return 0, &FormatError{Label: label}
	}
	s, err := parsePart(seconds)
	if err != nil || s > 59 {
		return 0, &FormatError{Label: label}
	}

	return m*60 + s, nil
}

func parsePart(part string) (int, error) {
	if len(part) != 2 {
		return 0, ErrFormat
	}
	n, err := strconv.Atoi(part)
	if err != nil || n < 0 {
		return 0, ErrFormat
	}
	return n, nil
}
