package survey

import (
	"fmt"
	"slices"
	"strings"
)

type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

// HoursPerWeek bounds the workload a tutor may ask for
const HoursPerWeek = 24 * DaysPerWeek

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// DayNames lists the days in output order
func DayNames() []string {
	return slices.Clone(dayNames[:])
}

// ParseDay resolves a day name case-insensitively, ignoring surrounding blanks
func ParseDay(name string) (Day, bool) {
	name = strings.TrimSpace(name)
	for i, dayName := range dayNames {
		if strings.EqualFold(name, dayName) {
			return Day(i), true
		}
	}
	return 0, false
}
