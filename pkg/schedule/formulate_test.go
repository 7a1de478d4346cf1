package schedule

import (
	"testing"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulate(t *testing.T) {
	//** Arrange
	grid := newGrid(t, "9:00AM", "9:30AM", "10:00AM")
	input := newInput(grid,
		newTutor("A", 1, 4, grid, slots{survey.Monday: {0, 1, 2}}, slots{survey.Monday: {0}, survey.Sunday: {2}}),
		newTutor("B", 1, 4, grid, slots{survey.Tuesday: {1}}, slots{}),
	)

	//** Act
	formulation, err := Formulate(input)

	//** Assert
	require.NoError(t, err)
	model := formulation.Model
	assert.Equal(t, 2*survey.DaysPerWeek*3, model.NumVars())
	assert.Equal(t, "A@Monday 9:00AM", model.Name(formulation.indexer.Index(0, 0, 0)))

	count := func(prefix string) int {
		total := 0
		for _, constraint := range model.Constraints() {
			if len(constraint.Name) >= len(prefix) && constraint.Name[:len(prefix)] == prefix {
				total++
			}
		}
		return total
	}
	assert.Equal(t, survey.DaysPerWeek*3, count("staffing"))
	assert.Equal(t, 2, count("max-hours"))
	assert.Zero(t, count("min-hours"))
	assert.Equal(t, 2*survey.DaysPerWeek*3-4, count("availability"))
	assert.Equal(t, 4, count("isolation"))

	objectives := model.Objectives()
	require.Len(t, objectives, 2)
	assert.Equal(t, PreferenceObjective, objectives[0].Name)
	assert.Len(t, objectives[0].Terms, 1)
	assert.Equal(t, CoverageObjective, objectives[1].Name)
	assert.Len(t, objectives[1].Terms, 4)
	assert.Equal(t, 2, formulation.PreferenceMaximum)
	assert.Equal(t, 1, formulation.PreferenceAttainable)
}

func TestFormulateOptions(t *testing.T) {
	grid := newGrid(t, "9:00AM", "9:30AM")
	input := newInput(grid, newTutor("A", 1.25, 3.75, grid, slots{survey.Monday: {0, 1}}, slots{survey.Monday: {1}}))
	input.Options.EnforceMinimumHours = true
	input.Options.Objective = Weighted
	input.Options.MaxTutorsPerSlot = 2

	formulation, err := Formulate(input)

	require.NoError(t, err)
	var minimum, maximum, staffing csp.Constraint
	for _, constraint := range formulation.Model.Constraints() {
		switch constraint.Name {
		case "min-hours[A]":
			minimum = constraint
		case "max-hours[A]":
			maximum = constraint
		case "staffing[Monday 9:00AM]":
			staffing = constraint
		}
	}
	assert.Equal(t, 3, minimum.Bound)
	assert.Equal(t, csp.GreaterEqual, minimum.Relation)
	assert.Equal(t, 7, maximum.Bound)
	assert.Equal(t, 2, staffing.Bound)

	objectives := formulation.Model.Objectives()
	require.Len(t, objectives, 1)
	assert.Equal(t, WeightedObjective, objectives[0].Name)
	assert.Equal(t, 3, formulation.PreferenceWeight)
	assert.Len(t, objectives[0].Terms, 3)

	input.Options.MaxTutorsPerSlot = 0
	_, err = Formulate(input)
	assert.Error(t, err)
}
