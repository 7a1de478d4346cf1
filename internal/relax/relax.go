package relax

import (
	"errors"
	"fmt"
	"math"

	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// MaxVariables bounds the size of the relaxation: the standard form built by lp.Convert is dense
const MaxVariables = 300

var ErrTooLarge = errors.New("relax: too many preferred cells for the LP relaxation")

type cell struct {
	tutor, day, shift int
}

// PreferenceBound returns an upper bound on the preference objective: the LP relaxation of the
// preferred and available cells under the staffing cap and the workload upper bound, ignoring the
// isolation rule.
func PreferenceBound(input schedule.Input) (float64, error) {
	cells := make([]cell, 0)
	for tutor, profile := range input.Tutors {
		for day := range survey.DaysPerWeek {
			for shift := range input.Grid.Len() {
				if profile.Preference[day][shift] && profile.Availability[day][shift] {
					cells = append(cells, cell{tutor, day, shift})
				}
			}
		}
	}
	n := len(cells)
	if n == 0 {
		return 0, nil
	}
	if n > MaxVariables {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooLarge, n, MaxVariables)
	}

	//** Inequalities G·x <= h
	slotRows := make(map[[2]int]int)
	tutorRows := make(map[int]int)
	var h []float64
	for _, c := range cells {
		if _, ok := slotRows[[2]int{c.day, c.shift}]; !ok {
			slotRows[[2]int{c.day, c.shift}] = len(h)
			h = append(h, float64(input.Options.MaxTutorsPerSlot))
		}
		if _, ok := tutorRows[c.tutor]; !ok {
			tutorRows[c.tutor] = len(h)
			h = append(h, math.Floor(2*input.Tutors[c.tutor].MaxHours))
		}
	}
	bounds := len(h)
	h = append(h, make([]float64, 2*n)...)

	g := mat.NewDense(len(h), n, nil)
	c := make([]float64, n)
	for i, cl := range cells {
		c[i] = -1 // Simplex minimizes
		g.Set(slotRows[[2]int{cl.day, cl.shift}], i, 1)
		g.Set(tutorRows[cl.tutor], i, 1)
		// 0 <= x_i <= 1
		g.Set(bounds+i, i, 1)
		h[bounds+i] = 1
		g.Set(bounds+n+i, i, -1)
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, nil, nil)
	optimum, _, err := lp.Simplex(cStd, aStd, bStd, 1e-10, nil)
	if err != nil {
		return 0, fmt.Errorf("cannot solve preference relaxation: %w", err)
	}
	return -optimum, nil
}
