package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/mitchellh/mapstructure"
)

// decodeColumns decodes the columns section. A range may be written "3-9", [3, 9], {start: 3, end: 9}
// or as a single column 7.
func decodeColumns(raw any) (survey.ColumnConfig, error) {
	var columns survey.ColumnConfig
	if raw == nil {
		return columns, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       columnRangeHook,
		WeaklyTypedInput: true,
		TagName:          "koanf",
		Result:           &columns,
	})
	if err != nil {
		return columns, err
	}
	if err := decoder.Decode(raw); err != nil {
		return columns, &survey.ConfigError{Problems: []string{err.Error()}}
	}
	return columns, nil
}

var columnRangeType = reflect.TypeOf(survey.ColumnRange{})

func columnRangeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != columnRangeType {
		return data, nil
	}

	switch value := data.(type) {
	case string:
		return ParseColumnRange(value)
	case int, int64, uint64, float64:
		col, err := strconv.Atoi(fmt.Sprint(value))
		if err != nil {
			return nil, fmt.Errorf("invalid column %v", value)
		}
		return survey.ColumnRange{Start: col, End: col}, nil
	case []any:
		if len(value) != 2 {
			return nil, fmt.Errorf("a column range needs a start and an end, got %v", value)
		}
		bounds := make([]int, 2)
		for i, bound := range value {
			col, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(bound)))
			if err != nil {
				return nil, fmt.Errorf("invalid column %v", bound)
			}
			bounds[i] = col
		}
		return survey.ColumnRange{Start: bounds[0], End: bounds[1]}, nil
	}
	return data, nil
}

// ParseColumnRange parses "3-9", "7" or an empty string (absent range)
func ParseColumnRange(value string) (survey.ColumnRange, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return survey.ColumnRange{}, nil
	}

	start, end, isRange := strings.Cut(value, "-")
	first, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return survey.ColumnRange{}, fmt.Errorf("invalid column range %q", value)
	}
	if !isRange {
		return survey.ColumnRange{Start: first, End: first}, nil
	}
	last, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return survey.ColumnRange{}, fmt.Errorf("invalid column range %q", value)
	}
	return survey.ColumnRange{Start: first, End: last}, nil
}

// FormatColumnRange is the inverse of ParseColumnRange
func FormatColumnRange(r survey.ColumnRange) string {
	if r.Start == 0 && r.End == 0 {
		return ""
	}
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
