package schedule

import (
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/survey"
)

type ObjectiveMode string

const (
	Lexicographic ObjectiveMode = "lexicographic" // Preference first, then coverage among preference-optimal schedules
	Weighted      ObjectiveMode = "weighted"      // Single objective where preference strictly dominates coverage
)

const DefaultMaxTutorsPerSlot = 3

type Options struct {
	MaxTutorsPerSlot    int
	EnforceMinimumHours bool
	Objective           ObjectiveMode
}

func DefaultOptions() Options {
	return Options{
		MaxTutorsPerSlot: DefaultMaxTutorsPerSlot,
		Objective:        Lexicographic,
	}
}

func (options Options) validate() error {
	if options.MaxTutorsPerSlot < 1 {
		return fmt.Errorf("at least one tutor per slot must be allowed, got %d", options.MaxTutorsPerSlot)
	}
	if options.Objective != Lexicographic && options.Objective != Weighted {
		return fmt.Errorf("unknown objective %q: allowed values are %q and %q", options.Objective, Lexicographic, Weighted)
	}
	return nil
}

type Input struct {
	Grid    survey.ShiftGrid
	Tutors  []survey.Tutor
	Options Options
}

func NewInput(s survey.Survey, options Options) Input {
	return Input{Grid: s.Grid, Tutors: s.Tutors, Options: options}
}

// cells is the number of (day, shift) cells a tutor could work
func (input Input) cells() int { return survey.DaysPerWeek * input.Grid.Len() }

// maxSlots converts an upper hour bound into half-hour slots, rounding down. Bounds beyond cells
// cannot bind and are clamped to it.
func maxSlots(hours float64, cells int) int {
	if hours*2 >= float64(cells) {
		return cells
	}
	return int(hours * 2)
}

// minSlots converts a lower hour bound into half-hour slots, rounding up. Bounds beyond cells are
// clamped to cells+1, which no schedule reaches.
func minSlots(hours float64, cells int) int {
	if hours*2 > float64(cells) {
		return cells + 1
	}
	slots := int(hours * 2)
	if float64(slots) < hours*2 {
		slots++
	}
	return slots
}
