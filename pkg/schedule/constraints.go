package schedule

import (
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/survey"
)

type constraintState struct {
	input   Input
	indexer indexer

	tutors,
	days,
	shifts int
}

func (state constraintState) term(tutor, day, shift int) csp.Term {
	return csp.Term{Var: state.indexer.Index(tutor, day, shift), Coef: 1}
}

func (state constraintState) tutorTerms(tutor int) []csp.Term {
	terms := make([]csp.Term, 0, state.days*state.shifts)
	for day := range state.days {
		for shift := range state.shifts {
			terms = append(terms, state.term(tutor, day, shift))
		}
	}
	return terms
}

// Σ_t x(t,d,s) <= cap
func staffingConstraints(state constraintState) []csp.Constraint {
	constraints := make([]csp.Constraint, 0, state.days*state.shifts)
	for day := range state.days {
		for shift := range state.shifts {
			terms := make([]csp.Term, state.tutors)
			for tutor := range state.tutors {
				terms[tutor] = state.term(tutor, day, shift)
			}
			constraints = append(constraints, csp.Constraint{
				Name:     fmt.Sprintf("staffing[%v %v]", survey.Day(day), state.input.Grid.Hours[shift]),
				Terms:    terms,
				Relation: csp.LessEqual,
				Bound:    state.input.Options.MaxTutorsPerSlot,
			})
		}
	}
	return constraints
}

// Σ_{d,s} x(t,d,s) <= 2·max_hours
func workloadUpperConstraints(state constraintState) []csp.Constraint {
	constraints := make([]csp.Constraint, 0, state.tutors)
	for tutor, profile := range state.input.Tutors {
		constraints = append(constraints, csp.Constraint{
			Name:     fmt.Sprintf("max-hours[%v]", profile.Name),
			Terms:    state.tutorTerms(tutor),
			Relation: csp.LessEqual,
			Bound:    maxSlots(profile.MaxHours, state.input.cells()),
		})
	}
	return constraints
}

// Σ_{d,s} x(t,d,s) >= 2·min_hours
func workloadLowerConstraints(state constraintState) []csp.Constraint {
	if !state.input.Options.EnforceMinimumHours {
		return nil
	}

	constraints := make([]csp.Constraint, 0, state.tutors)
	for tutor, profile := range state.input.Tutors {
		constraints = append(constraints, csp.Constraint{
			Name:     fmt.Sprintf("min-hours[%v]", profile.Name),
			Terms:    state.tutorTerms(tutor),
			Relation: csp.GreaterEqual,
			Bound:    minSlots(profile.MinHours, state.input.cells()),
		})
	}
	return constraints
}

// x(t,d,s) <= availability(t,d,s); only unavailable cells need a constraint
func availabilityConstraints(state constraintState) []csp.Constraint {
	constraints := make([]csp.Constraint, 0)
	for tutor, profile := range state.input.Tutors {
		for day := range state.days {
			for shift := range state.shifts {
				if profile.Availability[day][shift] {
					continue
				}
				constraints = append(constraints, csp.Constraint{
					Name:     fmt.Sprintf("availability[%v %v %v]", profile.Name, survey.Day(day), state.input.Grid.Hours[shift]),
					Terms:    []csp.Term{state.term(tutor, day, shift)},
					Relation: csp.LessEqual,
					Bound:    0,
				})
			}
		}
	}
	return constraints
}

// x(t,d,s) => the slot is worked together with a neighbor of the same block:
//   - first slot of a block needs the next one,
//   - last slot of a block needs the previous one,
//   - a block made of a single slot can never be worked,
//   - any other slot needs at least one of its neighbors.
func isolationConstraints(state constraintState) []csp.Constraint {
	grid := state.input.Grid
	constraints := make([]csp.Constraint, 0, state.tutors*state.days*state.shifts)
	for tutor, profile := range state.input.Tutors {
		for day := range state.days {
			for shift := range state.shifts {
				// Unavailable slots are never worked, the implication would be void
				if !profile.Availability[day][shift] {
					continue
				}

				terms := make([]csp.Term, 0, 2)
				if !grid.BlockStart(shift) {
					terms = append(terms, state.term(tutor, day, shift-1))
				}
				if !grid.BlockEnd(shift) {
					terms = append(terms, state.term(tutor, day, shift+1))
				}

				variable := state.indexer.Index(tutor, day, shift)
				constraints = append(constraints, csp.Constraint{
					Name:      fmt.Sprintf("isolation[%v %v %v]", profile.Name, survey.Day(day), grid.Hours[shift]),
					Terms:     terms,
					Relation:  csp.GreaterEqual,
					Bound:     1,
					Kind:      csp.Conditional,
					Condition: variable,
				})
			}
		}
	}
	return constraints
}
