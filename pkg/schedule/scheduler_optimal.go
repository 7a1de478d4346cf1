package schedule

import (
	"context"
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/rs/zerolog"
)

type optimalScheduler struct {
	solver *csp.Solver
}

// NewOptimalScheduler returns a scheduler looking for a single optimal schedule. When the solver's time
// limit runs out, the best schedule found so far is returned as FEASIBLE.
func NewOptimalScheduler(solver *csp.Solver) Scheduler {
	return &optimalScheduler{
		solver: solver,
	}
}

func (scheduler *optimalScheduler) Build(ctx context.Context, input Input) (Outcome, error) {
	log := zerolog.Ctx(ctx)

	//** Formulate
	formulation, err := Formulate(input)
	if err != nil {
		return Outcome{}, err
	}
	log.Info().
		Int("variables", formulation.Model.NumVars()).
		Int("constraints", len(formulation.Model.Constraints())).
		Msg("Model formulated")

	//** Solve
	result, err := scheduler.solver.Solve(ctx, formulation.Model)
	if err != nil {
		return Outcome{}, err
	}
	outcome := newOutcome(formulation, result)
	if !result.Status.HasSolution() {
		return outcome, nil
	}

	//** Project
	schedule := Project(result.Values, formulation)
	if !scheduler.Verify(schedule, input) {
		return Outcome{}, fmt.Errorf("solver returned an invalid schedule: %v", violations(schedule.Assignment, input))
	}
	outcome.Schedules = []Schedule{schedule}
	return outcome, nil
}

func (scheduler *optimalScheduler) Verify(schedule Schedule, input Input) bool {
	return verify(schedule, input)
}
