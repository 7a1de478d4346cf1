package survey

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// SlotDuration is the length of one shift
const SlotDuration = 30 * time.Minute

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([AaPp])\.?[Mm]\.?$`)

// ShiftGrid is the ordered set of shift start times of a day
type ShiftGrid struct {
	Hours        []string        // Time labels in chronological order
	Times        []time.Duration // Offset since midnight of each label
	Breaks       []int           // Indices i such that slot i does not continue slot i-1
	HeaderToTime map[string]string
}

// ExtractTime returns the text between the last '[' and the last ']' of a header
func ExtractTime(header string) (string, bool) {
	open := strings.LastIndex(header, "[")
	closing := strings.LastIndex(header, "]")
	if open < 0 || closing < open {
		return "", false
	}
	label := strings.TrimSpace(header[open+1 : closing])
	return label, label != ""
}

// ParseClock converts a 12-hour clock label such as "9:00AM", "9:30 pm" or "9AM" into an offset since midnight
func ParseClock(label string) (time.Duration, error) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(label))
	if match == nil {
		return 0, fmt.Errorf("invalid clock label %q", label)
	}

	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, fmt.Errorf("invalid clock label %q", label)
	}

	hour %= 12
	if strings.EqualFold(match[3], "p") {
		hour += 12
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// BuildShiftGrid collects the distinct times of every configured availability and preference column.
// Columns of a preference block without a bracketed time are resolved later through the availability block.
func BuildShiftGrid(headers []string, config ColumnConfig) (ShiftGrid, error) {
	grid := ShiftGrid{HeaderToTime: make(map[string]string)}
	// One label per time of day: the first spelling met stands for every equivalent one
	labels := make(map[time.Duration]string)

	for _, block := range config.blocks() {
		for col := block.Start; col <= block.End; col++ {
			header := headers[col-1]
			label, ok := ExtractTime(header)
			if !ok {
				if block.preference {
					continue
				}
				return ShiftGrid{}, &MalformedRowError{Row: 0, Field: fmt.Sprintf("column %d", col), Value: header, Err: errors.New("header has no bracketed time")}
			}
			offset, err := ParseClock(label)
			if err != nil {
				return ShiftGrid{}, &MalformedRowError{Row: 0, Field: fmt.Sprintf("column %d", col), Value: header, Err: err}
			}
			if _, ok := labels[offset]; !ok {
				labels[offset] = label
			}
			grid.HeaderToTime[header] = labels[offset]
		}
	}

	grid.Times = lo.Keys(labels)
	slices.Sort(grid.Times)
	grid.Hours = lo.Map(grid.Times, func(offset time.Duration, _ int) string { return labels[offset] })

	for i := 1; i < len(grid.Times); i++ {
		if grid.Times[i]-grid.Times[i-1] > SlotDuration {
			grid.Breaks = append(grid.Breaks, i)
		}
	}
	return grid, nil
}

func (g ShiftGrid) Len() int { return len(g.Hours) }

func (g ShiftGrid) Index(label string) (int, bool) {
	index := slices.Index(g.Hours, label)
	return index, index >= 0
}

func (g ShiftGrid) IsBreak(shift int) bool {
	_, found := slices.BinarySearch(g.Breaks, shift)
	return found
}

// BlockStart reports whether shift opens a run of contiguous slots
func (g ShiftGrid) BlockStart(shift int) bool {
	return shift == 0 || g.IsBreak(shift)
}

// BlockEnd reports whether shift closes a run of contiguous slots
func (g ShiftGrid) BlockEnd(shift int) bool {
	return shift == g.Len()-1 || g.IsBreak(shift+1)
}
