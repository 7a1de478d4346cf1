package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/limaJavier/tutorshifts/internal/logger"
	"github.com/limaJavier/tutorshifts/internal/wizard"
	"github.com/spf13/cobra"
)

var configureFlags struct {
	input string
	out   string
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Map the columns of a survey interactively and write a configuration file",
	Args:  cobra.NoArgs,
	RunE:  configure,
}

func init() {
	configureCmd.Flags().StringVarP(&configureFlags.input, "input", "i", "", "survey CSV file")
	configureCmd.Flags().StringVarP(&configureFlags.out, "out", "o", "run.yaml", "configuration file to write")
	_ = configureCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(configureCmd)
}

func configure(cmd *cobra.Command, args []string) error {
	log := logger.New("configure", "info")

	headers, err := readHeaders(configureFlags.input)
	if err != nil {
		return err
	}
	if err := wizard.Run(headers, configureFlags.out); err != nil {
		return err
	}

	log.Info().Str("path", configureFlags.out).Int("columns", len(headers)).Msg("configuration written")
	return nil
}

func readHeaders(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open survey: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read survey header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return headers, nil
}
