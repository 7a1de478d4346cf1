package schedule

import "github.com/limaJavier/tutorshifts/pkg/csp"

// indexer gives a unique decision variable to a (tutor, day, shift) triple and vice versa
type indexer interface {
	// Returns the variable of a tutor working a shift on a day
	Index(tutor, day, shift int) csp.Var
	// Returns the tutor, day and shift of a variable
	Attributes(variable csp.Var) (tutor, day, shift int)
}

func newIndexer(tutors, days, shifts int) indexer {
	return &indexerImplementation{
		tutors: tutors,
		days:   days,
		shifts: shifts,
	}
}

type indexerImplementation struct {
	tutors int
	days   int
	shifts int
}

func (indexer *indexerImplementation) Index(tutor, day, shift int) csp.Var {
	return csp.Var(shift + indexer.shifts*day + indexer.shifts*indexer.days*tutor)
}

func (indexer *indexerImplementation) Attributes(variable csp.Var) (tutor, day, shift int) {
	index := int(variable)
	shift = index % indexer.shifts
	index = index / indexer.shifts

	day = index % indexer.days
	index = index / indexer.days

	tutor = index % indexer.tutors

	return tutor, day, shift
}
