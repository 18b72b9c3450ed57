package mapper

import (
	"errors"
	"fmt"
)

// DropKind names the reason a record produced no pair.
type DropKind int

const (
	DropNone DropKind = iota
	DropSchema
	DropDateFormat
	DropUnknownMonth
	DropNumeric
)

var (
	ErrSchema       = errors.New("record has too few fields")
	ErrDateFormat   = errors.New("date does not have three components")
	ErrUnknownMonth = errors.New("unknown month code")
	ErrNumeric      = errors.New("quantity and price must be numeric")
)

func (k DropKind) String() string {
	switch k {
	case DropNone:
		return "none"
	case DropSchema:
		return "schema"
	case DropDateFormat:
		return "date-format"
	case DropUnknownMonth:
		return "unknown-month"
	case DropNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("drop(%d)", int(k))
	}
}

func (k DropKind) sentinel() error {
	switch k {
	case DropSchema:
		return ErrSchema
	case DropDateFormat:
		return ErrDateFormat
	case DropUnknownMonth:
		return ErrUnknownMonth
	case DropNumeric:
		return ErrNumeric
	default:
		return nil
	}
}

// Diagnostic describes a dropped record. It is observational only.
type Diagnostic struct {
	Kind  DropKind
	Line  string
	Cause error
}

func newDiagnostic(kind DropKind, line string, cause error) *Diagnostic {
	return &Diagnostic{Kind: kind, Line: line, Cause: cause}
}

// Message is the status text handed to the Reporter.
func (d *Diagnostic) Message() string {
	switch d.Kind {
	case DropNumeric:
		return fmt.Sprintf("Error processing line: '%s'. Make sure quantity and price are numeric.", d.Line)
	case DropUnknownMonth:
		return fmt.Sprintf("Error processing line: '%s'. Unknown month code.", d.Line)
	case DropDateFormat:
		return fmt.Sprintf("Skipped line: '%s'. Date must look like M/D/YY.", d.Line)
	default:
		return fmt.Sprintf("Skipped line: '%s'. Expected at least %d fields.", d.Line, MIN_FIELDS)
	}
}

func (d *Diagnostic) Error() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s: %v", d.Kind.sentinel(), d.Cause)
	}
	return d.Kind.sentinel().Error()
}

func (d *Diagnostic) Unwrap() []error {
	if d.Cause != nil {
		return []error{d.Kind.sentinel(), d.Cause}
	}
	return []error{d.Kind.sentinel()}
}
