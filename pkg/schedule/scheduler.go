package schedule

import (
	"context"

	"github.com/limaJavier/tutorshifts/pkg/csp"
)

type Scheduler interface {
	// Returns the schedules found for the input. A model without solution is reported through
	// Outcome.Status, errors are reserved for formulation and solver failures.
	Build(ctx context.Context, input Input) (Outcome, error)

	Verify(schedule Schedule, input Input) bool
}

type Outcome struct {
	Status    csp.Status
	Schedules []Schedule // Best schedule first; empty unless Status has a solution

	Variables    int // Decision variables of the model
	Constraints  int
	SATVariables uint64
	Clauses      int
}

// Primary returns the first schedule of the outcome
func (outcome Outcome) Primary() (Schedule, bool) {
	if len(outcome.Schedules) == 0 {
		return Schedule{}, false
	}
	return outcome.Schedules[0], true
}

func newOutcome(formulation *Formulation, result csp.Result) Outcome {
	return Outcome{
		Status:       result.Status,
		Variables:    formulation.Model.NumVars(),
		Constraints:  len(formulation.Model.Constraints()),
		SATVariables: result.Variables,
		Clauses:      result.Clauses,
	}
}
