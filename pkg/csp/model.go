package csp

import (
	"fmt"
	"strings"
)

// Var is a boolean decision variable, identified by its declaration order
type Var int

type Term struct {
	Var  Var
	Coef int
}

type Relation int

const (
	LessEqual Relation = iota
	GreaterEqual
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "=="
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// Kind tells whether a constraint always holds or only when its condition variable is true
type Kind int

const (
	Unconditional Kind = iota
	Conditional
)

// Constraint is a linear relation Σ coef·var (relation) bound
type Constraint struct {
	Name      string
	Terms     []Term
	Relation  Relation
	Bound     int
	Kind      Kind
	Condition Var // Only meaningful for Conditional constraints
}

type Objective struct {
	Name  string
	Terms []Term
}

// Model is a pure boolean linear model. Objectives are maximized in registration order.
type Model struct {
	names       []string
	constraints []Constraint
	objectives  []Objective
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) NewBoolVar(name string) Var {
	m.names = append(m.names, name)
	return Var(len(m.names) - 1)
}

func (m *Model) NumVars() int { return len(m.names) }

func (m *Model) Name(v Var) string {
	if int(v) < 0 || int(v) >= len(m.names) {
		return fmt.Sprintf("v%d", int(v))
	}
	return m.names[v]
}

func (m *Model) Add(constraint Constraint) {
	m.constraints = append(m.constraints, constraint)
}

func (m *Model) AddLinear(name string, terms []Term, relation Relation, bound int) {
	m.Add(Constraint{Name: name, Terms: terms, Relation: relation, Bound: bound, Kind: Unconditional})
}

// AddConditional posts a constraint that is only enforced when condition is true
func (m *Model) AddConditional(name string, condition Var, terms []Term, relation Relation, bound int) {
	m.Add(Constraint{Name: name, Terms: terms, Relation: relation, Bound: bound, Kind: Conditional, Condition: condition})
}

func (m *Model) Maximize(name string, terms []Term) {
	m.objectives = append(m.objectives, Objective{Name: name, Terms: terms})
}

func (m *Model) Constraints() []Constraint { return m.constraints }

func (m *Model) Objectives() []Objective { return m.objectives }

// Evaluate computes Σ coef·value over terms
func Evaluate(terms []Term, values []bool) int {
	total := 0
	for _, term := range terms {
		if values[term.Var] {
			total += term.Coef
		}
	}
	return total
}

// Holds reports whether the constraint is satisfied by values (a disabled conditional constraint holds)
func (c Constraint) Holds(values []bool) bool {
	if c.Kind == Conditional && !values[c.Condition] {
		return true
	}
	total := Evaluate(c.Terms, values)
	switch c.Relation {
	case LessEqual:
		return total <= c.Bound
	case GreaterEqual:
		return total >= c.Bound
	default:
		return total == c.Bound
	}
}

// Violations lists the names of the constraints broken by values
func (m *Model) Violations(values []bool) []string {
	var violated []string
	for _, constraint := range m.constraints {
		if !constraint.Holds(values) {
			violated = append(violated, constraint.Name)
		}
	}
	return violated
}

func (m *Model) validate() error {
	check := func(v Var) bool { return int(v) >= 0 && int(v) < len(m.names) }
	var problems []string
	for _, constraint := range m.constraints {
		for _, term := range constraint.Terms {
			if !check(term.Var) {
				problems = append(problems, fmt.Sprintf("constraint %q references undeclared variable %d", constraint.Name, term.Var))
			}
		}
		if constraint.Kind == Conditional && !check(constraint.Condition) {
			problems = append(problems, fmt.Sprintf("constraint %q is conditional on undeclared variable %d", constraint.Name, constraint.Condition))
		}
	}
	for _, objective := range m.objectives {
		for _, term := range objective.Terms {
			if !check(term.Var) {
				problems = append(problems, fmt.Sprintf("objective %q references undeclared variable %d", objective.Name, term.Var))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid model: %v", strings.Join(problems, "; "))
	}
	return nil
}
