package openspout

import "fmt"

// InvalidValueError reports a date-value or time-value attribute that could
// not be parsed. It carries the offending raw string for diagnostics.
type InvalidValueError struct {
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q", e.Value)
}
