package survey

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ColumnRange is an inclusive 1-based range of survey columns; the zero value means the block is absent
type ColumnRange struct {
	Start int `koanf:"start" validate:"gte=0,required_with=End"`
	End   int `koanf:"end" validate:"required_with=Start,gtefield=Start"`
}

func (r ColumnRange) Present() bool { return r.Start != 0 && r.End != 0 }

func (r ColumnRange) Len() int {
	if !r.Present() {
		return 0
	}
	return r.End - r.Start + 1
}

func (r ColumnRange) String() string {
	if !r.Present() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ColumnConfig maps survey columns to their roles
type ColumnConfig struct {
	NameCol      int         `koanf:"name_col" validate:"gte=1"`
	PrefNameCol  int         `koanf:"pref_name_col" validate:"gte=0"`
	HoursCol     int         `koanf:"hours_col" validate:"gte=1"`
	Avail        ColumnRange `koanf:"avail_col_range"`
	Pref         ColumnRange `koanf:"pref_col_range"`
	EveningAvail ColumnRange `koanf:"evening_avail_col_range"`
	EveningPref  ColumnRange `koanf:"evening_pref_col_range"`
}

type block struct {
	ColumnRange
	preference bool
	origin     ColumnRange // Availability block a preference block is shifted from
}

func (c ColumnConfig) blocks() []block {
	return lo.Filter([]block{
		{ColumnRange: c.Avail},
		{ColumnRange: c.Pref, preference: true, origin: c.Avail},
		{ColumnRange: c.EveningAvail},
		{ColumnRange: c.EveningPref, preference: true, origin: c.EveningAvail},
	}, func(b block, _ int) bool { return b.Present() })
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their configuration key
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name, _, _ := strings.Cut(field.Tag.Get("koanf"), ","); name != "" {
			return name
		}
		return field.Name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		config := sl.Current().Interface().(ColumnConfig)
		if !config.Avail.Present() && !config.EveningAvail.Present() {
			sl.ReportError(config.Avail, "Avail", "avail_col_range", "availability_block", "")
		}
	}, ColumnConfig{})
	return v
}

// Validate checks the ranges and that at least one availability block is configured
func (c ColumnConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ConfigError{Problems: []string{err.Error()}}
	}
	return &ConfigError{Problems: lo.Map(validationErrors, func(fe validator.FieldError, _ int) string {
		return describe(fe)
	})}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "availability_block":
		return "at least one availability block (avail_col_range or evening_avail_col_range) must be configured"
	case "required_with":
		return fmt.Sprintf("%v: start and end must both be zero (absent) or both non-zero", fe.Namespace())
	case "gtefield":
		return fmt.Sprintf("%v: end must not be before start", fe.Namespace())
	case "gte":
		return fmt.Sprintf("%v must be at least %v, got %v", fe.Namespace(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%v failed on %q", fe.Namespace(), fe.Tag())
}

// FitHeader checks that every configured column exists in a header of width columns
func (c ColumnConfig) FitHeader(width int) error {
	var problems []string
	check := func(name string, col int) {
		if col > width {
			problems = append(problems, fmt.Sprintf("%v column %d is beyond the %d columns of the survey", name, col, width))
		}
	}
	check("name_col", c.NameCol)
	check("pref_name_col", c.PrefNameCol)
	check("hours_col", c.HoursCol)
	check("avail_col_range", c.Avail.End)
	check("pref_col_range", c.Pref.End)
	check("evening_avail_col_range", c.EveningAvail.End)
	check("evening_pref_col_range", c.EveningPref.End)

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
