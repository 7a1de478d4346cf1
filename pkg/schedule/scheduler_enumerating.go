package schedule

import (
	"context"
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/rs/zerolog"
)

// DefaultEnumerationLimit is the number of schedules enumerated when no limit is given
const DefaultEnumerationLimit = 5

type enumeratingScheduler struct {
	solver *csp.Solver
	limit  int
}

// NewEnumeratingScheduler returns a scheduler listing up to limit feasible schedules, ignoring objectives
func NewEnumeratingScheduler(solver *csp.Solver, limit int) Scheduler {
	if limit <= 0 {
		limit = DefaultEnumerationLimit
	}
	return &enumeratingScheduler{
		solver: solver,
		limit:  limit,
	}
}

func (scheduler *enumeratingScheduler) Build(ctx context.Context, input Input) (Outcome, error) {
	log := zerolog.Ctx(ctx)

	formulation, err := Formulate(input)
	if err != nil {
		return Outcome{}, err
	}

	var (
		schedules []Schedule
		last      csp.Result
		invalid   error
	)
	status, count, err := scheduler.solver.Enumerate(ctx, formulation.Model, scheduler.limit, func(result csp.Result) bool {
		last = result
		schedule := Project(result.Values, formulation)
		if !scheduler.Verify(schedule, input) {
			invalid = fmt.Errorf("solver returned an invalid schedule: %v", violations(schedule.Assignment, input))
			return false
		}
		log.Debug().Int("solution", len(schedules)+1).Int("coverage", schedule.Coverage).Msg("Schedule found")
		schedules = append(schedules, schedule)
		return true
	})
	if err != nil {
		return Outcome{}, err
	} else if invalid != nil {
		return Outcome{}, invalid
	}
	if count >= scheduler.limit {
		log.Info().Int("limit", scheduler.limit).Msg("Stopped search after reaching the solution limit")
	}

	last.Status = status
	outcome := newOutcome(formulation, last)
	outcome.Schedules = schedules
	return outcome, nil
}

func (scheduler *enumeratingScheduler) Verify(schedule Schedule, input Input) bool {
	return verify(schedule, input)
}
