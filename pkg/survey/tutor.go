package survey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Tutor struct {
	Name           string
	MinHours       float64
	MaxHours       float64
	Availability   [DaysPerWeek][]bool
	Preference     [DaysPerWeek][]bool
	ScheduledHours float64
	Row            int // 1-based survey row, the header being row 0
}

// AvailableSlots counts the (day, shift) cells the tutor can work
func (t Tutor) AvailableSlots() int {
	return t.count(func(day, shift int) bool { return t.Availability[day][shift] })
}

func (t Tutor) PreferredSlots() int {
	return t.count(func(day, shift int) bool { return t.Preference[day][shift] })
}

// PreferredUnavailableSlots counts cells marked preferred but not available
func (t Tutor) PreferredUnavailableSlots() int {
	return t.count(func(day, shift int) bool { return t.Preference[day][shift] && !t.Availability[day][shift] })
}

func (t Tutor) count(predicate func(day, shift int) bool) int {
	total := 0
	for day := range DaysPerWeek {
		for shift := range t.Availability[day] {
			if predicate(day, shift) {
				total++
			}
		}
	}
	return total
}

// ParseWorkload parses "X" or "X-Y" hour bounds
func ParseWorkload(value string) (float64, float64, error) {
	parse := func(text string) (float64, error) {
		hours, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number of hours %q", strings.TrimSpace(text))
		}
		if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
			return 0, fmt.Errorf("number of hours must be a non-negative finite value, got %q", strings.TrimSpace(text))
		}
		if hours > HoursPerWeek {
			return 0, fmt.Errorf("number of hours %v exceeds the %v hours of a week", hours, HoursPerWeek)
		}
		return hours, nil
	}

	low, high, isRange := strings.Cut(value, "-")
	minHours, err := parse(low)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return minHours, minHours, nil
	}

	maxHours, err := parse(high)
	if err != nil {
		return 0, 0, err
	}
	if minHours > maxHours {
		return 0, 0, fmt.Errorf("minimum %v exceeds maximum %v", minHours, maxHours)
	}
	return minHours, maxHours, nil
}

// ParseTutor maps one survey row onto a tutor. rowNumber is only used for diagnostics.
func ParseTutor(row []string, rowNumber int, headers []string, grid ShiftGrid, config ColumnConfig) (Tutor, error) {
	tutor := Tutor{Row: rowNumber}
	cell := func(col int) string {
		if col < 1 || col > len(row) {
			return ""
		}
		return strings.TrimSpace(row[col-1])
	}
	malformed := func(field, value string, err error) error {
		return &MalformedRowError{Row: rowNumber, Field: field, Value: value, Err: err}
	}

	//** Name
	tutor.Name = cell(config.PrefNameCol)
	if tutor.Name == "" {
		if fields := strings.Fields(cell(config.NameCol)); len(fields) > 0 {
			tutor.Name = fields[0]
		}
	}
	if tutor.Name == "" {
		return Tutor{}, malformed("name", cell(config.NameCol), errors.New("tutor has no name"))
	}

	//** Workload
	var err error
	tutor.MinHours, tutor.MaxHours, err = ParseWorkload(cell(config.HoursCol))
	if err != nil {
		return Tutor{}, malformed("hours", cell(config.HoursCol), err)
	}

	//** Availability and preference
	for day := range DaysPerWeek {
		tutor.Availability[day] = make([]bool, grid.Len())
		tutor.Preference[day] = make([]bool, grid.Len())
	}
	for _, block := range config.blocks() {
		matrix := &tutor.Availability
		if block.preference {
			matrix = &tutor.Preference
		}

		for col := block.Start; col <= block.End; col++ {
			value := cell(col)
			if value == "" {
				continue
			}
			header := headers[col-1]

			shift, err := resolveShift(col, block, headers, grid)
			if err != nil {
				return Tutor{}, malformed(header, value, err)
			}

			for _, name := range strings.Split(value, ";") {
				if strings.TrimSpace(name) == "" {
					continue
				}
				day, ok := ParseDay(name)
				if !ok {
					return Tutor{}, malformed(header, value, fmt.Errorf("unknown day %q", strings.TrimSpace(name)))
				}
				matrix[day][shift] = true
			}
		}
	}

	return tutor, nil
}

// resolveShift finds the shift of a column: from its own header, or for a preference column without
// one, from the availability column at the same position of the block
func resolveShift(col int, block block, headers []string, grid ShiftGrid) (int, error) {
	label, ok := grid.HeaderToTime[headers[col-1]]
	if !ok && block.preference && block.origin.Present() {
		originCol := col - (block.Start - block.origin.Start)
		if originCol >= block.origin.Start && originCol <= block.origin.End {
			label, ok = grid.HeaderToTime[headers[originCol-1]]
		}
	}
	if !ok {
		return 0, errors.New("column has no time label")
	}

	shift, ok := grid.Index(label)
	if !ok {
		return 0, fmt.Errorf("time %q is not part of the shift grid", label)
	}
	return shift, nil
}
