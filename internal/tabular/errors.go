package tabular

import "fmt"

// ValidationError describes the first rule violation found in a tabular
// payload. Row is the 1-based data-row number (0 for header or file-level
// problems). Expected/Actual are filled for header mismatches.
type ValidationError struct {
	Row      int
	Field    string
	Expected string
	Actual   string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Expected != "" || e.Actual != "":
		return fmt.Sprintf("%s: expected %q got %q", e.Message, e.Expected, e.Actual)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	default:
		return e.Message
	}
}

func headerErr(pos int, expected, actual string) *ValidationError {
	return &ValidationError{
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("header mismatch at position %d", pos),
	}
}

func rowErr(row int, field, msg string) *ValidationError {
	return &ValidationError{Row: row, Field: field, Message: msg}
}

func fileErr(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
