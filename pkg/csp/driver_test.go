package csp

import (
	"context"
	"fmt"
	"testing"

	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver() *Solver {
	return NewSolver(sat.NewGiniSolver(), Options{})
}

func boolVars(model *Model, n int) []Var {
	vars := make([]Var, n)
	for i := range vars {
		vars[i] = model.NewBoolVar(fmt.Sprintf("x%d", i))
	}
	return vars
}

func unitTerms(vars ...Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return terms
}

func TestSolveRespectsLinearConstraints(t *testing.T) {
	for bound := range 5 {
		t.Run(fmt.Sprintf("at most %d of 4", bound), func(t *testing.T) {
			//** Arrange
			model := NewModel()
			x := boolVars(model, 4)
			model.AddLinear("cap", unitTerms(x...), LessEqual, bound)
			model.Maximize("count", unitTerms(x...))

			//** Act
			result, err := newTestSolver().Solve(context.Background(), model)

			//** Assert
			require.NoError(t, err)
			assert.Equal(t, Optimal, result.Status)
			assert.Equal(t, []int{bound}, result.ObjectiveValues)
			assert.Empty(t, model.Violations(result.Values))
		})
	}
}

func TestSolveEquality(t *testing.T) {
	//** Arrange
	model := NewModel()
	x := boolVars(model, 5)
	model.AddLinear("exactly two", unitTerms(x...), Equal, 2)
	model.Maximize("first three", unitTerms(x[:3]...))

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Status)
	assert.Equal(t, 2, Evaluate(unitTerms(x...), result.Values))
	assert.Equal(t, []int{2}, result.ObjectiveValues)
}

func TestSolveCoefficients(t *testing.T) {
	//** Arrange
	model := NewModel()
	x := boolVars(model, 3)
	// 3a + 2b - c <= 2
	model.AddLinear("weighted", []Term{{x[0], 3}, {x[1], 2}, {x[2], -1}}, LessEqual, 2)
	model.Maximize("value", []Term{{x[0], 4}, {x[1], 1}, {x[2], 1}})

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Status)
	// a=1 forces c=1 (3-1 <= 2) and b=0
	assert.Equal(t, []bool{true, false, true}, result.Values)
	assert.Equal(t, []int{5}, result.ObjectiveValues)
}

func TestSolveConditional(t *testing.T) {
	//** Arrange
	model := NewModel()
	x := boolVars(model, 3)
	model.AddConditional("x0 needs x1", x[0], unitTerms(x[1]), GreaterEqual, 1)
	model.AddLinear("x1 off", unitTerms(x[1]), LessEqual, 0)
	model.Maximize("count", unitTerms(x...))

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Status)
	assert.Equal(t, []bool{false, false, true}, result.Values)
}

func TestSolveInfeasible(t *testing.T) {
	//** Arrange
	model := NewModel()
	x := boolVars(model, 3)
	model.AddLinear("at least two", unitTerms(x...), GreaterEqual, 2)
	model.AddLinear("at most one", unitTerms(x...), LessEqual, 1)

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Infeasible, result.Status)
	assert.Nil(t, result.Values)
}

func TestSolveEmptyConditionDisablesVariable(t *testing.T) {
	//** Arrange
	model := NewModel()
	x := boolVars(model, 2)
	model.AddConditional("impossible when on", x[0], nil, GreaterEqual, 1)
	model.Maximize("count", unitTerms(x...))

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, result.Values)
}

func TestSolveLexicographic(t *testing.T) {
	//** Arrange
	// Picking a excludes b and c; the first objective only rewards a.
	model := NewModel()
	x := boolVars(model, 3)
	model.AddLinear("a excludes b", unitTerms(x[0], x[1]), LessEqual, 1)
	model.AddLinear("a excludes c", unitTerms(x[0], x[2]), LessEqual, 1)
	model.Maximize("preference", unitTerms(x[0]))
	model.Maximize("coverage", unitTerms(x...))

	//** Act
	result, err := newTestSolver().Solve(context.Background(), model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Status)
	assert.Equal(t, []int{1, 1}, result.ObjectiveValues)
	assert.Equal(t, []bool{true, false, false}, result.Values)
}

func TestSolveInterrupted(t *testing.T) {
	//** Arrange
	model := NewModel()
	boolVars(model, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	result, err := newTestSolver().Solve(ctx, model)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Unknown, result.Status)
}

func TestSolveInvalidModel(t *testing.T) {
	model := NewModel()
	model.AddLinear("dangling", unitTerms(Var(3)), LessEqual, 0)

	_, err := newTestSolver().Solve(context.Background(), model)

	assert.ErrorContains(t, err, "undeclared variable")
}

func TestSolveTooLarge(t *testing.T) {
	model := NewModel()
	x := model.NewBoolVar("x")
	model.Maximize("huge", []Term{{x, MaxExpandedTerms + 1}})

	_, err := newTestSolver().Solve(context.Background(), model)

	assert.ErrorIs(t, err, ErrModelTooLarge)
}

func TestEnumerate(t *testing.T) {
	t.Run("All solutions are distinct", func(t *testing.T) {
		//** Arrange
		model := NewModel()
		x := boolVars(model, 3)
		model.AddLinear("exactly one", unitTerms(x...), Equal, 1)
		seen := map[string]bool{}

		//** Act
		status, count, err := newTestSolver().Enumerate(context.Background(), model, 0, func(result Result) bool {
			assert.Empty(t, model.Violations(result.Values))
			seen[fmt.Sprint(result.Values)] = true
			return true
		})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Feasible, status)
		assert.Equal(t, 3, count)
		assert.Len(t, seen, 3)
	})

	t.Run("Stops at the limit", func(t *testing.T) {
		model := NewModel()
		boolVars(model, 4)

		status, count, err := newTestSolver().Enumerate(context.Background(), model, 5, func(Result) bool { return true })

		require.NoError(t, err)
		assert.Equal(t, Feasible, status)
		assert.Equal(t, 5, count)
	})

	t.Run("Callback stops the search", func(t *testing.T) {
		model := NewModel()
		boolVars(model, 4)

		_, count, err := newTestSolver().Enumerate(context.Background(), model, 0, func(Result) bool { return false })

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Infeasible", func(t *testing.T) {
		model := NewModel()
		x := boolVars(model, 2)
		model.AddLinear("none", unitTerms(x...), GreaterEqual, 3)

		status, count, err := newTestSolver().Enumerate(context.Background(), model, 0, func(Result) bool { return true })

		require.NoError(t, err)
		assert.Equal(t, Infeasible, status)
		assert.Zero(t, count)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OPTIMAL", Optimal.String())
	assert.Equal(t, "FEASIBLE", Feasible.String())
	assert.Equal(t, "INFEASIBLE", Infeasible.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.True(t, Feasible.HasSolution())
	assert.False(t, Infeasible.HasSolution())
}
