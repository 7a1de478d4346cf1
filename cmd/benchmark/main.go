package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/tutorshifts/internal/config"
	"github.com/limaJavier/tutorshifts/internal/logger"
	"github.com/limaJavier/tutorshifts/pkg/sat"
	"github.com/limaJavier/tutorshifts/pkg/survey"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const MB float32 = 1024 * 1024

type ResultType int

const (
	solved ResultType = iota
	infeasible
	timeout
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	infeasible: "infeasible",
	timeout:    "timeout",
}

// Exit codes of the tutorshifts binary
var exitResults = map[int]ResultType{
	0:  solved,
	20: infeasible,
	30: timeout,
}

// TestMetadata describes one fixture: a survey CSV next to a configuration file of the same name
type TestMetadata struct {
	Name      string
	Config    string
	Tutors    int
	Shifts    int
	Available int
	Preferred int
}

type BenchmarkResult struct {
	Solver        string
	Strategy      string
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

var flags struct {
	executable string
	directory  string
	out        string
	solvers    []string
	strategies []string
	timeLimit  string
}

var rootCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure every solver and strategy over a directory of survey fixtures",
	Args:  cobra.NoArgs,
	RunE:  benchmark,
}

func init() {
	rootCmd.Flags().StringVar(&flags.executable, "bin", "../../bin/tutorshifts", "tutorshifts executable")
	rootCmd.Flags().StringVar(&flags.directory, "fixtures", "../../test/surveys/", "directory of survey.csv and survey.yaml pairs")
	rootCmd.Flags().StringVar(&flags.out, "out", "benchmark_results.csv", "results file")
	rootCmd.Flags().StringSliceVar(&flags.solvers, "solvers", sat.Names(), "solvers to measure")
	rootCmd.Flags().StringSliceVar(&flags.strategies, "strategies", []string{config.StrategyOptimal, config.StrategyEnumerate}, "strategies to measure")
	rootCmd.Flags().StringVar(&flags.timeLimit, "time-limit", "120s", "time limit of every run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func benchmark(cmd *cobra.Command, args []string) error {
	log := logger.New("benchmark", "info")

	tests, err := getTests(flags.directory)
	if err != nil {
		return err
	}
	results := make([]BenchmarkResult, 0, len(tests)*len(flags.solvers)*len(flags.strategies))

	for _, test := range tests {
		for _, strategy := range flags.strategies {
			for _, solver := range flags.solvers {
				log.Info().Str("test", test.Name).Str("strategy", strategy).Str("solver", solver).Msg("benchmarking")

				result, err := measure(log, solver, strategy, test)
				if err != nil {
					return err
				}
				results = append(results, result)
			}
		}
	}

	return toCsv(flags.out, results)
}

func getTests(directory string) ([]TestMetadata, error) {
	surveys, err := filepath.Glob(filepath.Join(directory, "*.csv"))
	if err != nil {
		return nil, err
	}

	tests := make([]TestMetadata, 0, len(surveys))
	for _, filename := range surveys {
		configPath := strings.TrimSuffix(filename, ".csv") + ".yaml"
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("cannot load fixture configuration: %w", err)
		}

		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		s, err := survey.ReadSurvey(file, cfg.Columns)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot parse %v: %w", filename, err)
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Config:    configPath,
			Tutors:    len(s.Tutors),
			Shifts:    s.Grid.Len(),
			Available: lo.SumBy(s.Tutors, func(t survey.Tutor) int { return t.AvailableSlots() }),
			Preferred: lo.SumBy(s.Tutors, func(t survey.Tutor) int { return t.PreferredSlots() }),
		})
	}

	return tests, nil
}

func measure(log zerolog.Logger, solver, strategy string, test TestMetadata) (BenchmarkResult, error) {
	out := filepath.Join(os.TempDir(), "tutorshifts-benchmark.csv")
	cmd := exec.Command("/usr/bin/time", "-v", flags.executable, "solve",
		"--config", test.Config, "--input", test.Name, "--out", out, "--quiet",
		"--solver", solver, "--strategy", strategy, "--time-limit", flags.timeLimit)
	cmd.Env = append(os.Environ(), "TUTORSHIFTS_LOG__LEVEL=error")

	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	result := BenchmarkResult{Solver: solver, Strategy: strategy, Test: test}
	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, fmt.Errorf("cannot run %v: %w", flags.executable, err)
	}

	code := cmd.ProcessState.ExitCode()
	resultType, ok := exitResults[code]
	if !ok {
		return result, fmt.Errorf("test %q with strategy %q and solver %q exited with %d: %v", test.Name, strategy, solver, code, stdErr.String())
	}
	result.Result = resultType

	lines := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) (string, error) {
		line, ok := lo.Find(lines, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			return "", fmt.Errorf("substring %q could not be found in the time report", substr)
		}
		return line, nil
	}

	durationLine, err := getLine("wall clock")
	if err != nil {
		return result, err
	}
	memoryLine, err := getLine("maximum resident set size")
	if err != nil {
		return result, err
	}
	cpuLine, err := getLine("percent of cpu")
	if err != nil {
		return result, err
	}

	if result.Duration, err = parseDurationLine(durationLine); err != nil {
		return result, err
	}
	if result.Memory, err = parseMemoryLine(memoryLine); err != nil {
		return result, err
	}
	if result.CpuPercentage, err = parseCpuPercentageLine(cpuLine); err != nil {
		return result, err
	}

	log.Debug().Int64("duration_ms", result.Duration).Str("result", resultTypes[result.Result]).Msg("measured")
	return result, nil
}

func toCsv(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"Solver", "Strategy", "Test", "Tutors", "Shifts", "Available", "Preferred", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	records := [][]string{header}
	for _, result := range results {
		records = append(records, []string{
			result.Solver,
			result.Strategy,
			result.Test.Name,
			strconv.Itoa(result.Test.Tutors),
			strconv.Itoa(result.Test.Shifts),
			strconv.Itoa(result.Test.Available),
			strconv.Itoa(result.Test.Preferred),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		})
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("cannot write CSV records: %w", err)
	}
	return nil
}

func parseDurationLine(line string) (int64, error) {
	_, durationStr, ok := strings.Cut(line, "(h:mm:ss or m:ss):")
	if !ok {
		return 0, fmt.Errorf("unexpected duration line: %v", line)
	}
	return parseDuration(strings.TrimSpace(durationStr))
}

func parseDuration(durationStr string) (int64, error) {
	parts := strings.Split(durationStr, ":")
	secondsParts := strings.Split(parts[len(parts)-1], ".")
	if len(secondsParts) != 2 || len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
	}

	numbers := make([]int, 0, 4)
	for _, part := range append(parts[:len(parts)-1:len(parts)-1], secondsParts...) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
		}
		numbers = append(numbers, n)
	}

	var hours, minutes, seconds, hundredthOfSeconds int
	if len(parts) == 3 { // h:mm:ss
		hours, minutes, seconds, hundredthOfSeconds = numbers[0], numbers[1], numbers[2], numbers[3]
	} else { // m:ss
		minutes, seconds, hundredthOfSeconds = numbers[0], numbers[1], numbers[2]
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10), nil
}

func parseMemoryLine(line string) (float32, error) {
	_, memoryStr, _ := strings.Cut(line, ":")
	kilobytes, err := strconv.ParseFloat(strings.TrimSpace(memoryStr), 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected memory line: %v", line)
	}
	return float32(kilobytes) * 1024 / MB, nil
}

func parseCpuPercentageLine(line string) (int64, error) {
	_, percentageStr, _ := strings.Cut(line, ":")
	percentageStr = strings.TrimSuffix(strings.TrimSpace(percentageStr), "%")
	percentage, err := strconv.Atoi(percentageStr)
	if err != nil {
		return 0, fmt.Errorf("unexpected CPU line: %v", line)
	}
	return int64(percentage), nil
}
