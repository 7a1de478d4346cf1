package wizard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/limaJavier/tutorshifts/internal/config"
	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
)

var ErrNotInteractive = errors.New("the configuration wizard needs an interactive terminal")

// Answers holds the raw form values. Columns are 1-based, ranges are written "3-9".
type Answers struct {
	NameCol      string
	PrefNameCol  string
	HoursCol     string
	Avail        string
	Pref         string
	EveningAvail string
	EveningPref  string

	Backend             string
	Strategy            string
	Objective           string
	EnforceMinimumHours bool
}

func defaultAnswers() Answers {
	return Answers{
		NameCol:   "1",
		HoursCol:  "3",
		Backend:   "gini",
		Strategy:  config.StrategyOptimal,
		Objective: string(schedule.Lexicographic),
	}
}

// Columns converts the answers into a validated column configuration
func (answers Answers) Columns() (survey.ColumnConfig, error) {
	var columns survey.ColumnConfig
	var problems []string

	column := func(field, value string, target *int) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%v: %q is not a column number", field, value))
			return
		}
		*target = n
	}
	columnRange := func(field, value string, target *survey.ColumnRange) {
		r, err := config.ParseColumnRange(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%v: %v", field, err))
			return
		}
		*target = r
	}

	column("name_col", answers.NameCol, &columns.NameCol)
	column("pref_name_col", answers.PrefNameCol, &columns.PrefNameCol)
	column("hours_col", answers.HoursCol, &columns.HoursCol)
	columnRange("avail_col_range", answers.Avail, &columns.Avail)
	columnRange("pref_col_range", answers.Pref, &columns.Pref)
	columnRange("evening_avail_col_range", answers.EveningAvail, &columns.EveningAvail)
	columnRange("evening_pref_col_range", answers.EveningPref, &columns.EveningPref)

	if len(problems) > 0 {
		return columns, &survey.ConfigError{Problems: problems}
	}
	return columns, columns.Validate()
}

// WriteConfig stores a run configuration as YAML at path, in the layout config.Load reads back
func WriteConfig(path string, columns survey.ColumnConfig, solver config.SolverConfig, sched config.ScheduleConfig) error {
	k := koanf.New(".")
	values := map[string]any{
		"columns.name_col":                columns.NameCol,
		"columns.pref_name_col":           columns.PrefNameCol,
		"columns.hours_col":               columns.HoursCol,
		"columns.avail_col_range":         config.FormatColumnRange(columns.Avail),
		"columns.pref_col_range":          config.FormatColumnRange(columns.Pref),
		"columns.evening_avail_col_range": config.FormatColumnRange(columns.EveningAvail),
		"columns.evening_pref_col_range":  config.FormatColumnRange(columns.EveningPref),

		"solver.backend":    solver.Backend,
		"solver.strategy":   solver.Strategy,
		"solver.limit":      solver.Limit,
		"solver.time_limit": solver.TimeLimit.String(),
		"solver.paths":      solver.Paths,

		"schedule.max_tutors_per_slot":   sched.MaxTutorsPerSlot,
		"schedule.enforce_minimum_hours": sched.EnforceMinimumHours,
		"schedule.objective":             sched.Objective,
		"schedule.lp_bound":              sched.LPBound,
	}
	for key, value := range values {
		// Absent ranges are left out instead of being written as empty strings
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("cannot set %v: %w", key, err)
		}
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("cannot encode configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return nil
}

// Save turns the answers into a configuration file, filling everything the wizard does not ask
// with the defaults
func Save(path string, answers Answers) error {
	columns, err := answers.Columns()
	if err != nil {
		return err
	}

	solver := config.SolverConfig{Backend: answers.Backend, Strategy: answers.Strategy}
	solver.SetDefaults()
	sched := config.ScheduleConfig{Objective: answers.Objective, EnforceMinimumHours: answers.EnforceMinimumHours}
	sched.SetDefaults()
	if err := errors.Join(solver.Validate(), sched.Validate()); err != nil {
		return err
	}

	return WriteConfig(path, columns, solver, sched)
}

func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Run asks for the column mapping of a survey with the given headers and writes the result to path
func Run(headers []string, path string) error {
	if !Interactive() {
		return ErrNotInteractive
	}

	answers := defaultAnswers()
	form := newForm(headers, &answers)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("configuration aborted")
		}
		return err
	}
	return Save(path, answers)
}

//** Form

func newForm(headers []string, answers *Answers) *huh.Form {
	listing := strings.Join(lo.Map(headers, func(header string, i int) string {
		return fmt.Sprintf("%3d  %v", i+1, truncate(header, 60))
	}), "\n")

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Survey columns").
				Description(listing),
		),
		huh.NewGroup(
			columnInput("Name column", &answers.NameCol, true),
			columnInput("Preferred name column (blank for none)", &answers.PrefNameCol, false),
			columnInput("Hours column", &answers.HoursCol, true),
		),
		huh.NewGroup(
			rangeInput("Availability columns (e.g. 4-10)", &answers.Avail),
			rangeInput("Preference columns (blank for none)", &answers.Pref),
			rangeInput("Evening availability columns (blank for none)", &answers.EveningAvail),
			rangeInput("Evening preference columns (blank for none)", &answers.EveningPref),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("SAT solver").
				Options(huh.NewOptions(sat.Names()...)...).
				Value(&answers.Backend),
			huh.NewSelect[string]().
				Title("Strategy").
				Options(
					huh.NewOption("Optimal schedule", config.StrategyOptimal),
					huh.NewOption("Several schedules", config.StrategyEnumerate),
				).
				Value(&answers.Strategy),
			huh.NewSelect[string]().
				Title("Objective").
				Options(
					huh.NewOption("Preference first, then coverage", string(schedule.Lexicographic)),
					huh.NewOption("Weighted sum", string(schedule.Weighted)),
				).
				Value(&answers.Objective),
			huh.NewConfirm().
				Title("Enforce minimum hours?").
				Value(&answers.EnforceMinimumHours),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func columnInput(title string, value *string, required bool) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				if required {
					return fmt.Errorf("enter a column number")
				}
				return nil
			}
			if n, err := strconv.Atoi(s); err != nil || n < 1 {
				return fmt.Errorf("enter a positive column number")
			}
			return nil
		})
}

func rangeInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("3-9").
		Value(value).
		Validate(func(s string) error {
			_, err := config.ParseColumnRange(s)
			return err
		})
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
