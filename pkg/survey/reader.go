package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Survey is the normalized content of a survey file
type Survey struct {
	Headers []string
	Grid    ShiftGrid
	Tutors  []Tutor
}

// ReadSurvey parses a whole survey. The first malformed row aborts the read.
func ReadSurvey(r io.Reader, config ColumnConfig) (Survey, error) {
	if err := config.Validate(); err != nil {
		return Survey{}, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Survey{}, errors.New("survey is empty")
	} else if err != nil {
		return Survey{}, fmt.Errorf("cannot read survey header: %w", err)
	}
	headers = lo.Map(headers, func(header string, _ int) string { return strings.TrimPrefix(header, "\ufeff") })
	if err := config.FitHeader(len(headers)); err != nil {
		return Survey{}, err
	}

	grid, err := BuildShiftGrid(headers, config)
	if err != nil {
		return Survey{}, err
	}

	survey := Survey{Headers: headers, Grid: grid}
	for rowNumber := 1; ; rowNumber++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Survey{}, fmt.Errorf("cannot read survey row %d: %w", rowNumber, err)
		}
		if lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) == "" }) {
			continue
		}

		tutor, err := ParseTutor(row, rowNumber, headers, grid, config)
		if err != nil {
			return Survey{}, err
		}
		survey.Tutors = append(survey.Tutors, tutor)
	}
	return survey, nil
}
