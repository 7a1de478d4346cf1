package sat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath points to an optional JSON file mapping solver keys (e.g. "kissatPath") to executables
var ConfigPath = "solvers.json"

// parseSolution extracts the model from the "v" lines of a solver's standard output
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

// parseResultFile extracts the model from a minisat-like result file, where the first line holds the verdict
func parseResultFile(solverOutput string) (SATSolution, error) {
	lines := strings.SplitN(strings.TrimSpace(solverOutput), "\n", 2)
	if lines[0] == "UNSAT" {
		return nil, nil
	} else if lines[0] != "SAT" || len(lines) < 2 {
		return nil, fmt.Errorf("unexpected solver result file: %q", lo.Substring(solverOutput, 0, 64))
	}
	return parseLiterals(strings.Fields(lines[1]))
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		literal, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		}
		if literal == 0 { // Terminating zero
			break
		}
		solution = append(solution, literal)
	}
	return solution, nil
}

// getExecutablePath resolves a solver binary from the config file, falling back to $PATH
func getExecutablePath(solver, fallback string) (string, error) {
	bytes, err := os.ReadFile(ConfigPath)
	if err == nil {
		var inputJson map[string]any
		if err := json.Unmarshal(bytes, &inputJson); err != nil {
			return "", fmt.Errorf("cannot read %v file: %w", ConfigPath, err)
		}

		var config map[string]string
		if err := mapstructure.Decode(inputJson, &config); err != nil {
			return "", fmt.Errorf("cannot decode %v file: %w", ConfigPath, err)
		}
		if path, ok := config[solver]; ok && path != "" {
			return path, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("cannot read %v file: %w", ConfigPath, err)
	}

	path, err := exec.LookPath(fallback)
	if err != nil {
		return "", fmt.Errorf("solver %q is not present in %v and %q is not in PATH: %w", solver, ConfigPath, fallback, err)
	}
	return path, nil
}
