package schedule

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/stretchr/testify/require"
)

// slots maps a day to the shift indices a tutor marked
type slots map[survey.Day][]int

func newGrid(t *testing.T, hours ...string) survey.ShiftGrid {
	headers := []string{"Name", "Hours"}
	for _, hour := range hours {
		headers = append(headers, fmt.Sprintf("Availability [%v]", hour))
	}
	grid, err := survey.BuildShiftGrid(headers, survey.ColumnConfig{NameCol: 1, HoursCol: 2, Avail: survey.ColumnRange{Start: 3, End: len(headers)}})
	require.NoError(t, err)
	return grid
}

func newTutor(name string, minHours, maxHours float64, grid survey.ShiftGrid, available, preferred slots) survey.Tutor {
	tutor := survey.Tutor{Name: name, MinHours: minHours, MaxHours: maxHours}
	for day := range survey.DaysPerWeek {
		tutor.Availability[day] = make([]bool, grid.Len())
		tutor.Preference[day] = make([]bool, grid.Len())
	}
	for day, shifts := range available {
		for _, shift := range shifts {
			tutor.Availability[day][shift] = true
		}
	}
	for day, shifts := range preferred {
		for _, shift := range shifts {
			tutor.Preference[day][shift] = true
		}
	}
	return tutor
}

func allShifts(grid survey.ShiftGrid) []int {
	shifts := make([]int, grid.Len())
	for i := range shifts {
		shifts[i] = i
	}
	return shifts
}

func newInput(grid survey.ShiftGrid, tutors ...survey.Tutor) Input {
	return Input{Grid: grid, Tutors: tutors, Options: DefaultOptions()}
}

func newTestSolver() *csp.Solver {
	return csp.NewSolver(sat.NewGiniSolver(), csp.Options{})
}

func buildOptimal(t *testing.T, input Input) Outcome {
	outcome, err := NewOptimalScheduler(newTestSolver()).Build(context.Background(), input)
	require.NoError(t, err)
	return outcome
}

// randomInput builds a small survey-like input over a grid with one break
func randomInput(t *testing.T, random *rand.Rand) Input {
	grid := newGrid(t, "9:00AM", "9:30AM", "10:00AM", "10:30AM", "1:00PM", "1:30PM", "2:00PM")
	tutors := make([]survey.Tutor, random.IntN(5)+2)
	for i := range tutors {
		available, preferred := slots{}, slots{}
		for _, day := range []survey.Day{survey.Monday, survey.Tuesday, survey.Wednesday} {
			for shift := range grid.Len() {
				if random.Float32() < 0.6 {
					available[day] = append(available[day], shift)
				}
				if random.Float32() < 0.3 {
					preferred[day] = append(preferred[day], shift)
				}
			}
		}
		maxHours := float64(random.IntN(6)) + 0.5*float64(random.IntN(2))
		tutors[i] = newTutor(fmt.Sprintf("Tutor%d", i), 0, maxHours, grid, available, preferred)
	}
	input := newInput(grid, tutors...)
	input.Options.MaxTutorsPerSlot = random.IntN(3) + 1
	return input
}
