package dotosu

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a line failed to decode.
type ErrorKind uint8

const (
	MalformedLine ErrorKind = iota + 1
	UnknownCurveTag
	UnknownObjectKind
	NumericFormat
	MissingMandatoryField
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedLine:
		return "malformed line"
	case UnknownCurveTag:
		return "unknown curve tag"
	case UnknownObjectKind:
		return "unknown object kind"
	case NumericFormat:
		return "numeric format"
	case MissingMandatoryField:
		return "missing mandatory field"
	default:
		return "unknown"
	}
}

// DecodeError is the single error value returned when a document fails to decode.
// Line is 1-based within the document, or 0 when a lone line was decoded.
type DecodeError struct {
	Line    int
	Section string
	Field   string
	Kind    ErrorKind
	Text    string
	Msg     string
	Err     error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Section != "" {
		fmt.Fprintf(&b, "[%s] ", e.Section)
	}
	b.WriteString(e.Kind.String())
	if e.Field != "" {
		fmt.Fprintf(&b, " in %s", e.Field)
	}
	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " (%q)", e.Text)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func fieldErr(kind ErrorKind, field, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Field: field, Msg: msg}
}

// located fills in the document position of an error raised by a line decoder.
func located(err error, line int, section, text string) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return &DecodeError{Line: line, Section: section, Kind: MalformedLine, Text: text, Err: err}
	}
	de.Line = line
	de.Section = section
	de.Text = text
	return de
}
