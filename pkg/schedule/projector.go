package schedule

import (
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/samber/lo"
)

type TutorStats struct {
	Name           string
	MinHours       float64
	MaxHours       float64
	ScheduledHours float64
}

type Schedule struct {
	Hours      []string                       // Shift labels, one per row of Slots
	Slots      [][survey.DaysPerWeek][]string // [shift][day] names of the assigned tutors, in survey order
	Assignment [][survey.DaysPerWeek][]bool   // [tutor][day][shift]
	Tutors     []survey.Tutor                 // Copies of the input tutors with their scheduled hours
	Statistics []TutorStats

	PreferenceAchieved   int
	PreferenceMaximum    int // Preferred cells over all tutors
	PreferenceAttainable int // Preferred cells that are also available
	Coverage             int // Assigned (tutor, day, shift) cells
}

// Project reads the solved variables back into schedule and statistics tables
func Project(values []bool, formulation *Formulation) Schedule {
	input := formulation.Input
	shifts := input.Grid.Len()

	schedule := Schedule{
		Hours:                input.Grid.Hours,
		Slots:                make([][survey.DaysPerWeek][]string, shifts),
		Assignment:           make([][survey.DaysPerWeek][]bool, len(input.Tutors)),
		Tutors:               make([]survey.Tutor, len(input.Tutors)),
		PreferenceMaximum:    formulation.PreferenceMaximum,
		PreferenceAttainable: formulation.PreferenceAttainable,
	}
	for shift := range shifts {
		for day := range survey.DaysPerWeek {
			schedule.Slots[shift][day] = []string{}
		}
	}

	for tutor, profile := range input.Tutors {
		profile.ScheduledHours = 0
		for day := range survey.DaysPerWeek {
			schedule.Assignment[tutor][day] = make([]bool, shifts)
			for shift := range shifts {
				if !formulation.Value(values, tutor, day, shift) {
					continue
				}
				schedule.Assignment[tutor][day][shift] = true
				schedule.Slots[shift][day] = append(schedule.Slots[shift][day], profile.Name)
				profile.ScheduledHours += 0.5
				schedule.Coverage++
				if profile.Preference[day][shift] {
					schedule.PreferenceAchieved++
				}
			}
		}
		schedule.Tutors[tutor] = profile
	}

	schedule.Statistics = lo.Map(schedule.Tutors, func(tutor survey.Tutor, _ int) TutorStats {
		return TutorStats{
			Name:           tutor.Name,
			MinHours:       tutor.MinHours,
			MaxHours:       tutor.MaxHours,
			ScheduledHours: tutor.ScheduledHours,
		}
	})
	return schedule
}

// Underworked lists the tutors scheduled below their minimum hours
func (schedule Schedule) Underworked() []TutorStats {
	return lo.Filter(schedule.Statistics, func(stats TutorStats, _ int) bool {
		return stats.ScheduledHours < stats.MinHours
	})
}
