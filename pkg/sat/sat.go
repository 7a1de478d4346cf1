package sat

import (
	"fmt"
	"slices"
	"strings"
)

// SATSolution holds the signed literals of a model, a positive literal meaning its variable is true
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// With returns a copy of the instance extended with the given clauses. The receiver's clauses are shared, not copied.
func (s SAT) With(clauses ...[]int64) SAT {
	extended := SAT{
		Variables: s.Variables,
		Clauses:   make([][]int64, 0, len(s.Clauses)+len(clauses)),
	}
	extended.Clauses = append(extended.Clauses, s.Clauses...)
	extended.Clauses = append(extended.Clauses, clauses...)
	return extended
}

// Values expands the solution into a slice indexed by variable, where values[v] is true iff variable v is true
func (solution SATSolution) Values(variables uint64) []bool {
	values := make([]bool, variables+1)
	for _, literal := range solution {
		if literal > 0 && uint64(literal) <= variables {
			values[literal] = true
		}
	}
	return values
}

// Satisfies checks whether the solution is consistent and satisfies every clause of the instance
func (solution SATSolution) Satisfies(instance SAT) bool {
	// Make sure there are no duplicates nor contradictions
	literals := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	// Check that all clauses are satisfied
	return !slices.ContainsFunc(instance.Clauses, func(clause []int64) bool {
		return !slices.ContainsFunc(clause, func(literal int64) bool { return literals[literal] })
	})
}
