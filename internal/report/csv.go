package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/samber/lo"
)

const ScheduleCorner = "Shift/Day"

var StatisticsHeader = []string{"Tutor", "Min hours", "Max hours", "Scheduled hours"}

// ScheduleRows returns the schedule table: one row per shift, one column per day
func ScheduleRows(s schedule.Schedule) [][]string {
	rows := make([][]string, len(s.Hours))
	for shift, hour := range s.Hours {
		rows[shift] = append([]string{hour}, lo.Map(s.Slots[shift][:], func(names []string, _ int) string {
			return strings.Join(names, ", ")
		})...)
	}
	return rows
}

func StatisticsRows(s schedule.Schedule) [][]string {
	return lo.Map(s.Statistics, func(stats schedule.TutorStats, _ int) []string {
		return []string{stats.Name, formatHours(stats.MinHours), formatHours(stats.MaxHours), formatHours(stats.ScheduledHours)}
	})
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}

// WriteCSV writes the schedule table, a blank row, then the statistics table
func WriteCSV(w io.Writer, s schedule.Schedule) error {
	writer := csv.NewWriter(w)

	records := [][]string{append([]string{ScheduleCorner}, survey.DayNames()...)}
	records = append(records, ScheduleRows(s)...)
	records = append(records, []string{})
	records = append(records, StatisticsHeader)
	records = append(records, StatisticsRows(s)...)

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("cannot write schedule: %w", err)
	}
	return nil
}

// WriteFile writes the schedule into path, replacing any previous content
func WriteFile(path string, s schedule.Schedule) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("cannot close output file: %w", closeErr)
		}
	}()
	return WriteCSV(file, s)
}

// NumberedPath derives the path of the n-th schedule: "out.csv" becomes "out-2.csv"
func NumberedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%v-%d%v", strings.TrimSuffix(path, ext), n, ext)
}
