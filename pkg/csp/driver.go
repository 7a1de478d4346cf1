package csp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/rs/zerolog"
)

type Status int

const (
	Unknown Status = iota
	Optimal
	Feasible
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// HasSolution reports whether results with this status carry variable values
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

type Result struct {
	Status          Status
	Values          []bool // Indexed by Var
	ObjectiveValues []int  // Same order as the model's objectives
	Variables       uint64 // Size of the CNF instance handed to the backend
	Clauses         int
}

type Options struct {
	TimeLimit time.Duration // Zero means no limit
}

// Solver runs models on a SAT backend, logging through the zerolog logger carried by the context. Objectives are optimized lexicographically, one stage per
// objective: each stage binary-searches the best reachable value while the earlier stages' optima
// are kept as hard constraints.
type Solver struct {
	Backend sat.SATSolver
	Options Options
}

func NewSolver(backend sat.SATSolver, options Options) *Solver {
	return &Solver{Backend: backend, Options: options}
}

func (s *Solver) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Options.TimeLimit > 0 {
		return context.WithTimeout(ctx, s.Options.TimeLimit)
	}
	return context.WithCancel(ctx)
}

func (s *Solver) Solve(ctx context.Context, model *Model) (Result, error) {
	log := zerolog.Ctx(ctx)
	ctx, cancel := s.context(ctx)
	defer cancel()

	compiled, err := compile(model)
	if err != nil {
		return Result{}, err
	}
	base := compiled.instance
	log.Debug().Uint64("variables", base.Variables).Int("clauses", len(base.Clauses)).Msg("Model compiled")

	solution, err := s.Backend.Solve(ctx, base)
	if errors.Is(err, sat.ErrInterrupted) {
		return s.result(Unknown, model, compiled, nil), nil
	} else if err != nil {
		return Result{}, fmt.Errorf("cannot solve model: %w", err)
	} else if solution == nil {
		return s.result(Infeasible, model, compiled, nil), nil
	}
	best := compiled.values(solution)

	var fixed [][]int64
	for i, objective := range model.objectives {
		encoding := compiled.objectives[i]
		low := Evaluate(objective.Terms, best)
		high := encoding.offset + encoding.size

		for low < high {
			mid := low + (high-low+1)/2
			log.Debug().Str("objective", objective.Name).Int("bound", mid).Msg("Probing objective bound")

			instance := base.With(fixed...)
			if clause := encoding.atLeast(mid); clause != nil {
				instance = instance.With(clause)
			}
			solution, err := s.Backend.Solve(ctx, instance)
			if errors.Is(err, sat.ErrInterrupted) {
				log.Warn().Str("objective", objective.Name).Int("value", low).Msg("Time limit reached during optimization")
				return s.result(Feasible, model, compiled, best), nil
			} else if err != nil {
				return Result{}, fmt.Errorf("cannot optimize %v: %w", objective.Name, err)
			}

			if solution == nil {
				high = mid - 1
			} else {
				best = compiled.values(solution)
				low = Evaluate(objective.Terms, best)
			}
		}

		log.Debug().Str("objective", objective.Name).Int("value", low).Msg("Objective optimized")
		if clause := encoding.atLeast(low); clause != nil {
			fixed = append(fixed, clause)
		}
	}

	return s.result(Optimal, model, compiled, best), nil
}

// Enumerate calls found on up to limit distinct solutions (no limit when limit <= 0), excluding each one
// found before searching the next. Returning false from found stops the search.
func (s *Solver) Enumerate(ctx context.Context, model *Model, limit int, found func(Result) bool) (Status, int, error) {
	log := zerolog.Ctx(ctx)
	ctx, cancel := s.context(ctx)
	defer cancel()

	compiled, err := compile(model)
	if err != nil {
		return Unknown, 0, err
	}

	instance := compiled.instance
	count := 0
	for limit <= 0 || count < limit {
		solution, err := s.Backend.Solve(ctx, instance)
		if errors.Is(err, sat.ErrInterrupted) {
			log.Warn().Int("solutions", count).Msg("Time limit reached during enumeration")
			if count > 0 {
				return Feasible, count, nil
			}
			return Unknown, 0, nil
		} else if err != nil {
			return Unknown, count, fmt.Errorf("cannot enumerate solutions: %w", err)
		} else if solution == nil {
			break
		}

		values := compiled.values(solution)
		count++
		if !found(s.result(Feasible, model, compiled, values)) {
			break
		}
		instance = instance.With(compiled.blocking(values))
	}

	if count == 0 {
		return Infeasible, 0, nil
	}
	return Feasible, count, nil
}

func (s *Solver) result(status Status, model *Model, compiled *compiled, values []bool) Result {
	result := Result{
		Status:    status,
		Values:    values,
		Variables: compiled.instance.Variables,
		Clauses:   len(compiled.instance.Clauses),
	}
	if values != nil {
		result.ObjectiveValues = make([]int, len(model.objectives))
		for i, objective := range model.objectives {
			result.ObjectiveValues[i] = Evaluate(objective.Terms, values)
		}
	}
	return result
}
