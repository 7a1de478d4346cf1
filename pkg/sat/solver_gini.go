package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// pollInterval is how often a running gini solve is checked against its context
const pollInterval = 5 * time.Millisecond

type giniSolver struct{}

// NewGiniSolver returns an in-process solver backed by github.com/go-air/gini
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrInterrupted
	}

	g := gini.NewVc(int(sat.Variables), len(sat.Clauses))
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	// Search runs on gini's own goroutine so that ctx can stop it
	connection := g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var result int
	for {
		var done bool
		if result, done = connection.Test(); done {
			break
		}
		select {
		case <-ctx.Done():
			result = connection.Stop()
			if result == 0 {
				return nil, ErrInterrupted
			}
		case <-ticker.C:
			continue
		}
		break
	}

	switch result {
	case 1:
		return solver.solution(g, sat.Variables), nil
	case -1:
		return nil, nil
	default:
		return nil, ErrInterrupted
	}
}

func (solver *giniSolver) solution(g *gini.Gini, variables uint64) SATSolution {
	maxVar := uint64(g.MaxVar())
	solution := make(SATSolution, 0, variables)
	for variable := uint64(1); variable <= variables; variable++ {
		// Variables that never appear in a clause are unconstrained, hence false
		if variable <= maxVar && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return solution
}
