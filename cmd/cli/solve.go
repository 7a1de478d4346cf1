package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/tutorshifts/internal/config"
	"github.com/limaJavier/tutorshifts/internal/logger"
	"github.com/limaJavier/tutorshifts/internal/relax"
	"github.com/limaJavier/tutorshifts/internal/report"
	"github.com/limaJavier/tutorshifts/pkg/csp"
	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/limaJavier/tutorshifts/pkg/schedule"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var solveFlags struct {
	input           string
	out             string
	solver          string
	strategy        string
	objective       string
	limit           int
	timeLimit       time.Duration
	enforceMinHours bool
	maxPerSlot      int
	lpBound         bool
	logLevel        string
	quiet           bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Build the weekly schedule of a survey and write it as CSV",
	Args:  cobra.NoArgs,
	RunE:  solve,
}

func init() {
	flags := solveCmd.Flags()
	flags.StringVarP(&solveFlags.input, "input", "i", "", "survey CSV file")
	flags.StringVarP(&solveFlags.out, "out", "o", "schedule.csv", "output CSV file")
	flags.StringVar(&solveFlags.solver, "solver", "gini", fmt.Sprintf("SAT solver, one of %v", sat.Names()))
	flags.StringVar(&solveFlags.strategy, "strategy", config.StrategyOptimal, `"optimal" for the best schedule, "enumerate" to list several feasible ones`)
	flags.StringVar(&solveFlags.objective, "objective", string(schedule.Lexicographic), `"lexicographic" (preference, then coverage) or "weighted"`)
	flags.IntVar(&solveFlags.limit, "limit", schedule.DefaultEnumerationLimit, "maximum number of schedules listed by the enumerate strategy")
	flags.DurationVar(&solveFlags.timeLimit, "time-limit", 60*time.Second, "wall-clock budget of the solver")
	flags.BoolVar(&solveFlags.enforceMinHours, "enforce-min-hours", false, "require every tutor to work at least their minimum hours")
	flags.IntVar(&solveFlags.maxPerSlot, "max-per-slot", schedule.DefaultMaxTutorsPerSlot, "maximum number of tutors working the same slot")
	flags.BoolVar(&solveFlags.lpBound, "lp-bound", false, "report the LP relaxation bound on preference")
	flags.StringVar(&solveFlags.logLevel, "log-level", "info", "log level")
	flags.BoolVarP(&solveFlags.quiet, "quiet", "q", false, "do not print the schedule to the terminal")
	_ = solveCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	sat.ConfigPath = cfg.Solver.Paths

	log := logger.New("solve", cfg.Log.Level).With().Str("run_id", uuid.NewString()).Logger()
	ctx = log.WithContext(ctx)

	s, err := readSurvey(solveFlags.input, cfg.Columns)
	if err != nil {
		return err
	}
	logSurvey(log, s)

	input := schedule.NewInput(s, cfg.Schedule.Options())
	summary := report.Summary{}
	if cfg.Schedule.LPBound {
		summary.Bound = preferenceBound(log, input)
	}

	scheduler, err := newScheduler(cfg.Solver)
	if err != nil {
		return err
	}

	start := time.Now()
	outcome, err := scheduler.Build(ctx, input)
	if err != nil {
		return fmt.Errorf("an error occurred during schedule construction: %w", err)
	}
	summary.Outcome = outcome
	log.Info().
		Stringer("status", outcome.Status).
		Int("schedules", len(outcome.Schedules)).
		Uint64("sat_variables", outcome.SATVariables).
		Int("clauses", outcome.Clauses).
		Dur("elapsed", time.Since(start)).
		Msg("solver finished")

	out := cmd.OutOrStdout()
	if solveFlags.quiet {
		out = io.Discard
	}
	fmt.Fprintln(out, report.RenderSummary(summary))

	switch outcome.Status {
	case csp.Infeasible:
		return &exitCodeError{code: exitInfeasible, err: errors.New("no optimal solution")}
	case csp.Unknown:
		return &exitCodeError{code: exitUnknown, err: errors.New("time limit reached before any schedule was found")}
	}

	for i, sched := range outcome.Schedules {
		path := solveFlags.out
		if len(outcome.Schedules) > 1 {
			path = report.NumberedPath(path, i+1)
		}
		fmt.Fprintln(out, report.RenderSchedule(sched))
		if err := report.WriteFile(path, sched); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("preference", sched.PreferenceAchieved).Int("coverage", sched.Coverage).Msg("schedule written")
		for _, stats := range sched.Underworked() {
			log.Warn().Str("tutor", stats.Name).Float64("scheduled", stats.ScheduledHours).Float64("minimum", stats.MinHours).Msg("tutor below minimum hours")
		}
	}
	return nil
}

// applyFlags lets explicitly given flags override the configuration file and environment
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("solver") {
		cfg.Solver.Backend = solveFlags.solver
	}
	if flags.Changed("strategy") {
		cfg.Solver.Strategy = solveFlags.strategy
	}
	if flags.Changed("limit") {
		cfg.Solver.Limit = solveFlags.limit
	}
	if flags.Changed("time-limit") {
		cfg.Solver.TimeLimit = solveFlags.timeLimit
	}
	if flags.Changed("objective") {
		cfg.Schedule.Objective = solveFlags.objective
	}
	if flags.Changed("enforce-min-hours") {
		cfg.Schedule.EnforceMinimumHours = solveFlags.enforceMinHours
	}
	if flags.Changed("max-per-slot") {
		cfg.Schedule.MaxTutorsPerSlot = solveFlags.maxPerSlot
	}
	if flags.Changed("lp-bound") {
		cfg.Schedule.LPBound = solveFlags.lpBound
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = solveFlags.logLevel
	}
}

func readSurvey(path string, columns survey.ColumnConfig) (survey.Survey, error) {
	file, err := os.Open(path)
	if err != nil {
		return survey.Survey{}, fmt.Errorf("cannot open survey: %w", err)
	}
	defer file.Close()
	return survey.ReadSurvey(file, columns)
}

func logSurvey(log zerolog.Logger, s survey.Survey) {
	log.Info().
		Int("shifts", s.Grid.Len()).
		Strs("hours", s.Grid.Hours).
		Ints("breaks", s.Grid.Breaks).
		Int("tutors", len(s.Tutors)).
		Msg("survey read")

	unavailable := lo.SumBy(s.Tutors, func(t survey.Tutor) int { return t.PreferredUnavailableSlots() })
	if unavailable > 0 {
		log.Warn().Int("cells", unavailable).Msg("preferred slots outside availability are ignored")
	}
}

func preferenceBound(log zerolog.Logger, input schedule.Input) *float64 {
	bound, err := relax.PreferenceBound(input)
	if err != nil {
		log.Warn().Err(err).Msg("LP bound not computed")
		return nil
	}
	log.Info().Float64("bound", bound).Msg("LP bound on preference")
	return &bound
}

func newScheduler(cfg config.SolverConfig) (schedule.Scheduler, error) {
	backend, err := sat.NewSolver(cfg.Backend)
	if err != nil {
		return nil, err
	}
	solver := csp.NewSolver(backend, csp.Options{TimeLimit: cfg.TimeLimit})

	if cfg.Strategy == config.StrategyEnumerate {
		return schedule.NewEnumeratingScheduler(solver, cfg.Limit), nil
	}
	return schedule.NewOptimalScheduler(solver), nil
}
