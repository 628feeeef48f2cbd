package remind

import (
	"fmt"
	"strconv"
)

// Kind classifies reminder file failures. Kind implements error, so callers
// can test for a class with errors.Is(err, remind.KindDateFormat).
type Kind int

const (
	KindFileNotFound Kind = iota + 1
	KindSeparatorMissing
	KindMalformedLine
	KindDateFormat
	KindInvalidCalendarDate
)

func (k Kind) String() string {
	switch k {
	case KindFileNotFound:
		return "reminder file not found"
	case KindSeparatorMissing:
		return "separator declaration missing"
	case KindMalformedLine:
		return "line is missing the separator"
	case KindDateFormat:
		return "invalid date format"
	case KindInvalidCalendarDate:
		return "invalid calendar date"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) Error() string { return k.String() }

// Error describes a single failure while reading a reminder file.
type Error struct {
	Kind Kind
	// Line is the 1-based line number, 0 when the error is not tied to a line.
	Line int
	// Input is the offending line, token or path.
	Input string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind Kind, line int, input string, cause error) *Error {
	return &Error{Kind: kind, Line: line, Input: input, Err: cause}
}
