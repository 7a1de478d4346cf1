package csp

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/tutorshifts/pkg/sat"
)

// MaxExpandedTerms bounds the number of literals a single linear expression may expand to
// once coefficients are unrolled into repeated literals.
const MaxExpandedTerms = 1 << 16

var ErrModelTooLarge = errors.New("csp: linear expression too large to encode")

// clauseRecorder collects the clauses emitted by a logic.C circuit
type clauseRecorder struct {
	clauses [][]int64
	current []int64
	maxVar  int64
}

func (r *clauseRecorder) Add(m z.Lit) {
	if m == z.LitNull {
		r.clauses = append(r.clauses, r.current)
		r.current = nil
		return
	}
	literal := int64(m.Dimacs())
	r.current = append(r.current, literal)
	r.maxVar = max(r.maxVar, literal, -literal)
}

func (r *clauseRecorder) clause(lits ...z.Lit) {
	for _, lit := range lits {
		r.Add(lit)
	}
	r.Add(z.LitNull)
}

// objectiveEncoding keeps the sorting network of an objective so its bound can be tightened per stage
type objectiveEncoding struct {
	sorter *logic.CardSort // nil when the objective has no free literal
	offset int             // Constant part of the objective value
	size   int             // Number of literals fed into the sorter
}

// atLeast returns the clause forcing the objective value to be at least value
func (o objectiveEncoding) atLeast(value int) []int64 {
	count := value - o.offset
	if count <= 0 {
		return nil
	}
	return []int64{int64(o.sorter.Geq(count).Dimacs())}
}

type compiled struct {
	instance   sat.SAT
	inputs     []z.Lit // Model variable → circuit input
	objectives []objectiveEncoding
}

// values projects a SAT model back onto the model variables
func (c *compiled) values(solution sat.SATSolution) []bool {
	assignment := solution.Values(c.instance.Variables)
	values := make([]bool, len(c.inputs))
	for v, lit := range c.inputs {
		values[v] = assignment[lit.Var()] == lit.IsPos()
	}
	return values
}

// blocking returns the clause that excludes the assignment of model variables in values
func (c *compiled) blocking(values []bool) []int64 {
	clause := make([]int64, len(c.inputs))
	for v, lit := range c.inputs {
		if values[v] {
			lit = lit.Not()
		}
		clause[v] = int64(lit.Dimacs())
	}
	return clause
}

type compiler struct {
	circuit *logic.C
	inputs  []z.Lit
	fixed   map[Var]bool
}

// compile turns the model into CNF: each constraint is encoded as a circuit over the model
// variables and asserted either as a unit clause or, when conditional, guarded by its condition.
func compile(model *Model) (*compiled, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}

	circuit := logic.NewCCap(model.NumVars() * 4)
	cmp := &compiler{
		circuit: circuit,
		inputs:  make([]z.Lit, model.NumVars()),
		fixed:   fixedVariables(model.constraints),
	}
	for v := range cmp.inputs {
		cmp.inputs[v] = circuit.Lit()
	}

	var roots [][]z.Lit
	for _, v := range slices.Sorted(maps.Keys(cmp.fixed)) {
		lit := cmp.inputs[v]
		if !cmp.fixed[v] {
			lit = lit.Not()
		}
		roots = append(roots, []z.Lit{lit})
	}

	for _, constraint := range model.constraints {
		root, err := cmp.linear(constraint.Terms, constraint.Relation, constraint.Bound)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", constraint.Name, err)
		}
		if root == circuit.T {
			continue
		}
		if constraint.Kind == Conditional {
			roots = append(roots, []z.Lit{cmp.inputs[constraint.Condition].Not(), root})
		} else {
			roots = append(roots, []z.Lit{root})
		}
	}

	objectives := make([]objectiveEncoding, len(model.objectives))
	for i, objective := range model.objectives {
		lits, offset, err := cmp.expand(objective.Terms)
		if err != nil {
			return nil, fmt.Errorf("objective %q: %w", objective.Name, err)
		}
		objectives[i] = objectiveEncoding{offset: offset, size: len(lits)}
		if len(lits) > 0 {
			objectives[i].sorter = logic.NewCardSort(lits, circuit)
		}
	}

	recorder := &clauseRecorder{}
	circuit.ToCnf(recorder)
	recorder.clause(circuit.T)
	for _, root := range roots {
		recorder.clause(root...)
	}

	variables := recorder.maxVar
	for _, lit := range cmp.inputs {
		variables = max(variables, int64(lit.Var()))
	}
	return &compiled{
		instance:   sat.SAT{Variables: uint64(variables), Clauses: recorder.clauses},
		inputs:     cmp.inputs,
		objectives: objectives,
	}, nil
}

// fixedVariables finds the variables whose value is forced by an unconditional constraint over that single variable
func fixedVariables(constraints []Constraint) map[Var]bool {
	fixed := make(map[Var]bool)
	for _, constraint := range constraints {
		if constraint.Kind != Unconditional {
			continue
		}
		coefs := mergeTerms(constraint.Terms)
		if len(coefs) != 1 {
			continue
		}
		for v, coef := range coefs {
			holds := Constraint{Terms: []Term{{v, coef}}, Relation: constraint.Relation, Bound: constraint.Bound}.Holds
			values := make([]bool, int(v)+1)
			falseHolds := holds(values)
			values[v] = true
			trueHolds := holds(values)
			if falseHolds != trueHolds {
				if previous, ok := fixed[v]; ok && previous != trueHolds {
					// Contradictory unit constraints are left to the general encoding
					delete(fixed, v)
					continue
				}
				fixed[v] = trueHolds
			}
		}
	}
	return fixed
}

func mergeTerms(terms []Term) map[Var]int {
	coefs := make(map[Var]int, len(terms))
	for _, term := range terms {
		coefs[term.Var] += term.Coef
	}
	for v, coef := range coefs {
		if coef == 0 {
			delete(coefs, v)
		}
	}
	return coefs
}

// expand normalizes Σ coef·var into a multiset of literals plus a constant: fixed variables are folded
// into the constant, negative coefficients are rewritten over negated literals and every literal is
// repeated as many times as its coefficient.
func (cmp *compiler) expand(terms []Term) ([]z.Lit, int, error) {
	coefs := mergeTerms(terms)
	vars := slices.Sorted(maps.Keys(coefs))

	size := 0
	for _, v := range vars {
		if _, ok := cmp.fixed[v]; !ok {
			size += abs(coefs[v])
		}
	}
	if size > MaxExpandedTerms {
		return nil, 0, fmt.Errorf("%w: %d literals", ErrModelTooLarge, size)
	}

	lits := make([]z.Lit, 0, size)
	offset := 0
	for _, v := range vars {
		coef := coefs[v]
		if value, ok := cmp.fixed[v]; ok {
			if value {
				offset += coef
			}
			continue
		}
		lit := cmp.inputs[v]
		if coef < 0 {
			// coef·x = coef + |coef|·¬x
			offset += coef
			lit = lit.Not()
			coef = -coef
		}
		for range coef {
			lits = append(lits, lit)
		}
	}
	return lits, offset, nil
}

// linear returns a literal equivalent to the linear relation
func (cmp *compiler) linear(terms []Term, relation Relation, bound int) (z.Lit, error) {
	lits, offset, err := cmp.expand(terms)
	if err != nil {
		return z.LitNull, err
	}
	bound -= offset

	switch relation {
	case LessEqual:
		return cmp.atMost(lits, bound), nil
	case GreaterEqual:
		return cmp.atLeast(lits, bound), nil
	case Equal:
		return cmp.circuit.And(cmp.atMost(lits, bound), cmp.atLeast(lits, bound)), nil
	}
	return z.LitNull, fmt.Errorf("unknown relation %v", relation)
}

func (cmp *compiler) atMost(lits []z.Lit, bound int) z.Lit {
	c := cmp.circuit
	switch {
	case bound < 0:
		return c.F
	case bound >= len(lits):
		return c.T
	case bound == 0:
		negated := make([]z.Lit, len(lits))
		for i, lit := range lits {
			negated[i] = lit.Not()
		}
		return c.Ands(negated...)
	}
	return logic.NewCardSort(slices.Clone(lits), c).Leq(bound)
}

func (cmp *compiler) atLeast(lits []z.Lit, bound int) z.Lit {
	c := cmp.circuit
	switch {
	case bound <= 0:
		return c.T
	case bound > len(lits):
		return c.F
	case bound == 1:
		return c.Ors(lits...)
	}
	return logic.NewCardSort(slices.Clone(lits), c).Geq(bound)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
