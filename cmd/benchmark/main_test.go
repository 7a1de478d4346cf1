package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	parse := func(s string) int64 {
		duration, err := parseDuration(s)
		require.NoError(t, err)
		return duration
	}

	assert.Equal(t, int64(60*1000+1000+120), parse("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parse("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parse("1:01.12"))
	assert.Equal(t, int64(120), parse("0:00.12"))
	assert.Equal(t, int64(120), parse("00:00:00.12"))

	_, err := parseDuration("12")
	assert.Error(t, err)
	_, err = parseDuration("a:00.12")
	assert.Error(t, err)
}

func TestParseTimeReport(t *testing.T) {
	duration, err := parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:02.50")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), duration)

	memory, err := parseMemoryLine("\tMaximum resident set size (kbytes): 20480")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, memory, 1e-6)

	cpu, err := parseCpuPercentageLine("\tPercent of CPU this job got: 97%")
	require.NoError(t, err)
	assert.Equal(t, int64(97), cpu)
}

func TestGetTests(t *testing.T) {
	//** Arrange
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.csv"), []byte(
		"Name,Hours,Availability [9:00AM],Availability [9:30AM]\nAda,1-2,Monday;Friday,Monday\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.yaml"), []byte(
		"columns:\n  name_col: 1\n  hours_col: 2\n  avail_col_range: 3-4\n"), 0o644))

	//** Act
	tests, err := getTests(dir)

	//** Assert
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, 1, tests[0].Tutors)
	assert.Equal(t, 2, tests[0].Shifts)
	assert.Equal(t, 3, tests[0].Available)
	assert.Equal(t, filepath.Join(dir, "small.yaml"), tests[0].Config)
}
