package csp

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedVariables(t *testing.T) {
	constraints := []Constraint{
		{Terms: []Term{{0, 1}}, Relation: LessEqual, Bound: 0},
		{Terms: []Term{{1, 2}}, Relation: GreaterEqual, Bound: 1},
		{Terms: []Term{{2, 1}}, Relation: LessEqual, Bound: 1},                                  // Trivial
		{Terms: []Term{{3, 1}}, Relation: LessEqual, Bound: 0, Kind: Conditional, Condition: 0}, // Conditional
		{Terms: []Term{{4, 1}, {4, -1}}, Relation: LessEqual, Bound: 0},                         // Cancels out
	}

	fixed := fixedVariables(constraints)

	assert.Equal(t, map[Var]bool{0: false, 1: true}, fixed)
}

func TestCompiledInstanceIsSatisfiedBySolutions(t *testing.T) {
	model := NewModel()
	x := boolVars(model, 4)
	model.AddLinear("pair", unitTerms(x[0], x[1]), Equal, 1)
	model.AddLinear("off", unitTerms(x[2]), LessEqual, 0)

	compiled, err := compile(model)
	require.NoError(t, err)

	solution, err := newTestSolver().Backend.Solve(context.Background(), compiled.instance)
	require.NoError(t, err)
	require.NotNil(t, solution)
	assert.True(t, solution.Satisfies(compiled.instance))
	assert.Empty(t, model.Violations(compiled.values(solution)))
}

// bruteForce returns the lexicographic optimum of every objective, or nil if the model is infeasible
func bruteForce(model *Model) []int {
	n := model.NumVars()
	var best []int
	for mask := range 1 << n {
		values := make([]bool, n)
		for i := range n {
			values[i] = mask&(1<<i) != 0
		}
		if len(model.Violations(values)) > 0 {
			continue
		}
		current := make([]int, len(model.objectives))
		for i, objective := range model.objectives {
			current[i] = Evaluate(objective.Terms, values)
		}
		if best == nil || lexicographicallyGreater(current, best) {
			best = current
		}
	}
	return best
}

func lexicographicallyGreater(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func TestSolveMatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewPCG(3, 5))
	relations := []Relation{LessEqual, GreaterEqual, Equal}
	solver := newTestSolver()

	for range 60 {
		//** Arrange
		model := NewModel()
		vars := boolVars(model, random.IntN(6)+2)
		randomTerms := func() []Term {
			terms := make([]Term, random.IntN(4)+1)
			for i := range terms {
				terms[i] = Term{Var: vars[random.IntN(len(vars))], Coef: random.IntN(7) - 3}
			}
			return terms
		}
		for range random.IntN(5) + 1 {
			constraint := Constraint{
				Terms:    randomTerms(),
				Relation: relations[random.IntN(len(relations))],
				Bound:    random.IntN(7) - 2,
			}
			if random.IntN(3) == 0 {
				constraint.Kind = Conditional
				constraint.Condition = vars[random.IntN(len(vars))]
			}
			model.Add(constraint)
		}
		model.Maximize("first", randomTerms())
		model.Maximize("second", randomTerms())

		//** Act
		result, err := solver.Solve(context.Background(), model)

		//** Assert
		require.NoError(t, err)
		expected := bruteForce(model)
		if expected == nil {
			assert.Equal(t, Infeasible, result.Status)
			continue
		}
		require.Equal(t, Optimal, result.Status)
		assert.Empty(t, model.Violations(result.Values))
		assert.Equal(t, expected, result.ObjectiveValues)
	}
}
