package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type outputMode int

const (
	stdoutOutput outputMode = iota // Model printed on the standard output as "v" lines
	fileOutput                     // Model written by the solver into a result file given as the last argument
)

// externalSolver drives a SAT solver binary that speaks DIMACS-CNF.
// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable.
type externalSolver struct {
	name       string // Key of the binary path in the solvers config file
	executable string // Fallback executable looked up in $PATH
	args       []string
	fromFile   bool // Whether the DIMACS instance is passed as a file argument instead of the standard input
	output     outputMode
}

func NewKissatSolver() SATSolver {
	return &externalSolver{name: "kissatPath", executable: "kissat", args: []string{"-q", "--relaxed"}}
}

func NewCadicalSolver() SATSolver {
	return &externalSolver{name: "cadicalPath", executable: "cadical", args: []string{"-q"}}
}

func NewCryptominisatSolver() SATSolver {
	return &externalSolver{name: "cryptominisatPath", executable: "cryptominisat5", args: []string{"--verb", "0"}}
}

func NewSlimeSolver() SATSolver {
	return &externalSolver{name: "slimePath", executable: "slime", fromFile: true}
}

func NewOrtoolsatSolver() SATSolver {
	return &externalSolver{name: "ortoolsatPath", executable: "ortoolsat", fromFile: true}
}

func NewMinisatSolver() SATSolver {
	return &externalSolver{name: "minisatPath", executable: "minisat", args: []string{"-verb=0"}, fromFile: true, output: fileOutput}
}

func NewGlucoseSimpSolver() SATSolver {
	return &externalSolver{name: "glucoseSimpPath", executable: "glucose-simp", args: []string{"-verb=0"}, fromFile: true, output: fileOutput}
}

func NewGlucoseSyrupSolver() SATSolver {
	return &externalSolver{name: "glucoseSyrupPath", executable: "glucose-syrup", args: []string{"-verb=0"}, fromFile: true, output: fileOutput}
}

func (solver *externalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	executable, err := getExecutablePath(solver.name, solver.executable)
	if err != nil {
		return nil, err
	}
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	args := append([]string{}, solver.args...)
	if solver.fromFile {
		// Create a temporary file to hold the DIMACS content
		inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary file: %w", err)
		}
		defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

		// Write the DIMACS content to the temporary file
		if _, err := inputTempFile.WriteString(dimacs); err != nil {
			inputTempFile.Close()
			return nil, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
		}
		if err := inputTempFile.Close(); err != nil {
			return nil, fmt.Errorf("failed to close temporary file: %w", err)
		}
		args = append(args, inputTempFile.Name())
	}

	var outputTempFile *os.File
	if solver.output == fileOutput {
		outputTempFile, err = os.CreateTemp("", solver.executable+"_output-*.cnf")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary file: %w", err)
		}
		defer os.Remove(outputTempFile.Name())
		defer outputTempFile.Close()
		args = append(args, outputTempFile.Name())
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	if !solver.fromFile {
		cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input
	}

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("cannot run %v: %w", solver.executable, err)
	}
	switch cmd.ProcessState.ExitCode() {
	case 10:
	case 20:
		return nil, nil
	default:
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.executable, err, stderr.String())
	}

	if solver.output == stdoutOutput {
		return parseSolution(stdOut.String())
	}

	output, err := io.ReadAll(outputTempFile) // Read the output file
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}
	return parseResultFile(string(output))
}
