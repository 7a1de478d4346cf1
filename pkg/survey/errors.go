package survey

import (
	"fmt"
	"strings"
)

// ConfigError is returned when the column configuration cannot describe the survey
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid column configuration: %v", strings.Join(e.Problems, "; "))
}

// MalformedRowError names the survey row and field that could not be parsed. Row 0 is the header row.
type MalformedRowError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d, field %q: cannot parse %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
