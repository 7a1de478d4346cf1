package schedule

import (
	"fmt"

	"github.com/limaJavier/tutorshifts/pkg/survey"
)

// violations re-checks every hard rule directly on an assignment, independently of the constraint model
func violations(assignment [][survey.DaysPerWeek][]bool, input Input) []string {
	grid := input.Grid
	shifts := grid.Len()
	var found []string

	if len(assignment) != len(input.Tutors) {
		return []string{fmt.Sprintf("assignment covers %d tutors, expected %d", len(assignment), len(input.Tutors))}
	}

	//** Staffing cap
	for day := range survey.DaysPerWeek {
		for shift := range shifts {
			staffed := 0
			for tutor := range assignment {
				if assignment[tutor][day][shift] {
					staffed++
				}
			}
			if staffed > input.Options.MaxTutorsPerSlot {
				found = append(found, fmt.Sprintf("%v %v has %d tutors", survey.Day(day), grid.Hours[shift], staffed))
			}
		}
	}

	for tutor, profile := range input.Tutors {
		worked := 0
		for day := range survey.DaysPerWeek {
			if len(assignment[tutor][day]) != shifts {
				return append(found, fmt.Sprintf("%v has %d shifts on %v, expected %d", profile.Name, len(assignment[tutor][day]), survey.Day(day), shifts))
			}

			for shift := range shifts {
				if !assignment[tutor][day][shift] {
					continue
				}
				worked++
				slot := fmt.Sprintf("%v %v", survey.Day(day), grid.Hours[shift])

				//** Availability
				if !profile.Availability[day][shift] {
					found = append(found, fmt.Sprintf("%v works %v without being available", profile.Name, slot))
				}

				//** No isolated shift
				previous := !grid.BlockStart(shift) && assignment[tutor][day][shift-1]
				next := !grid.BlockEnd(shift) && assignment[tutor][day][shift+1]
				if !previous && !next {
					found = append(found, fmt.Sprintf("%v works an isolated shift on %v", profile.Name, slot))
				}
			}
		}

		//** Workload
		if worked > maxSlots(profile.MaxHours, input.cells()) {
			found = append(found, fmt.Sprintf("%v works %v hours, more than %v", profile.Name, float64(worked)/2, profile.MaxHours))
		}
		if input.Options.EnforceMinimumHours && worked < minSlots(profile.MinHours, input.cells()) {
			found = append(found, fmt.Sprintf("%v works %v hours, less than %v", profile.Name, float64(worked)/2, profile.MinHours))
		}
	}

	return found
}

func verify(schedule Schedule, input Input) bool {
	return len(violations(schedule.Assignment, input)) == 0
}
