package sat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrInterrupted is returned when a solve is stopped by its context before reaching a verdict
var ErrInterrupted = errors.New("sat: solve interrupted before a result was found")

type SATSolver interface {
	// Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil).
	// A solve cut short by ctx returns ErrInterrupted.
	Solve(ctx context.Context, sat SAT) (SATSolution, error)
}

var solvers = map[string]func() SATSolver{
	"gini":          NewGiniSolver,
	"kissat":        NewKissatSolver,
	"cadical":       NewCadicalSolver,
	"cryptominisat": NewCryptominisatSolver,
	"slime":         NewSlimeSolver,
	"ortoolsat":     NewOrtoolsatSolver,
	"minisat":       NewMinisatSolver,
	"glucosesimp":   NewGlucoseSimpSolver,
	"glucosesyrup":  NewGlucoseSyrupSolver,
}

// Names lists the registered solvers in alphabetical order
func Names() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

// NewSolver returns the solver registered under name
func NewSolver(name string) (SATSolver, error) {
	constructor, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown SAT solver %q: allowed values are %v", name, Names())
	}
	return constructor(), nil
}
