package schedule

import (
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/survey"
)

const (
	PreferenceObjective = "preference"
	CoverageObjective   = "coverage"
	WeightedObjective   = "weighted"
)

// Formulation is the constraint model of a schedule together with what is needed to read its solutions back
type Formulation struct {
	Model   *csp.Model
	Input   Input
	indexer indexer

	// PreferenceMaximum counts every preferred cell, PreferenceAttainable only those that are also available
	PreferenceMaximum    int
	PreferenceAttainable int
	// PreferenceWeight is the coefficient preference gets over coverage in weighted mode
	PreferenceWeight int
}

// Formulate builds one boolean variable per (tutor, day, shift) and posts every constraint family and objective
func Formulate(input Input) (*Formulation, error) {
	if err := input.Options.validate(); err != nil {
		return nil, err
	}

	tutors, days, shifts := len(input.Tutors), survey.DaysPerWeek, input.Grid.Len()
	formulation := &Formulation{
		Model:   csp.NewModel(),
		Input:   input,
		indexer: newIndexer(tutors, days, shifts),
	}

	//** Declare variables
	for tutor, profile := range input.Tutors {
		for day := range days {
			for shift := range shifts {
				variable := formulation.Model.NewBoolVar(fmt.Sprintf("%v@%v %v", profile.Name, survey.Day(day), input.Grid.Hours[shift]))
				if variable != formulation.indexer.Index(tutor, day, shift) {
					panic("schedule: variables must be declared in index order")
				}
			}
		}
	}

	//** Post constraints
	state := constraintState{
		input:   input,
		indexer: formulation.indexer,
		tutors:  tutors,
		days:    days,
		shifts:  shifts,
	}
	families := []func(state constraintState) []csp.Constraint{
		staffingConstraints,
		workloadUpperConstraints,
		workloadLowerConstraints,
		availabilityConstraints,
		isolationConstraints,
	}
	for _, family := range families {
		for _, constraint := range family(state) {
			formulation.Model.Add(constraint)
		}
	}

	//** Register objectives
	var preference, coverage []csp.Term
	available := 0
	for tutor, profile := range input.Tutors {
		for day := range days {
			for shift := range shifts {
				term := state.term(tutor, day, shift)
				if profile.Preference[day][shift] {
					formulation.PreferenceMaximum++
					if profile.Availability[day][shift] {
						formulation.PreferenceAttainable++
					}
				}
				if !profile.Availability[day][shift] {
					continue
				}
				available++
				coverage = append(coverage, term)
				if profile.Preference[day][shift] {
					preference = append(preference, term)
				}
			}
		}
	}

	switch input.Options.Objective {
	case Weighted:
		// Coverage never exceeds the number of available cells, so one preferred cell outweighs any coverage gain
		formulation.PreferenceWeight = available + 1
		weighted := make([]csp.Term, 0, len(preference)+len(coverage))
		for _, term := range preference {
			weighted = append(weighted, csp.Term{Var: term.Var, Coef: formulation.PreferenceWeight})
		}
		weighted = append(weighted, coverage...)
		formulation.Model.Maximize(WeightedObjective, weighted)
	default:
		formulation.Model.Maximize(PreferenceObjective, preference)
		formulation.Model.Maximize(CoverageObjective, coverage)
	}

	return formulation, nil
}

// Value returns whether tutor works shift on day in a solution of the formulation
func (formulation *Formulation) Value(values []bool, tutor, day, shift int) bool {
	return values[formulation.indexer.Index(tutor, day, shift)]
}
