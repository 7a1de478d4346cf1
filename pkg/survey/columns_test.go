package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnConfigValidate(t *testing.T) {
	valid := ColumnConfig{NameCol: 1, HoursCol: 2, Avail: ColumnRange{3, 9}}

	t.Run("Valid ranges", func(t *testing.T) {
		for _, r := range []ColumnRange{{0, 0}, {3, 3}, {10, 12}} {
			config := valid
			config.Pref = r
			assert.NoError(t, config.Validate(), r)
		}
	})

	t.Run("Invalid ranges", func(t *testing.T) {
		for _, r := range []ColumnRange{{0, 5}, {5, 0}, {6, 5}} {
			//** Arrange
			config := valid
			config.EveningPref = r

			//** Act
			err := config.Validate()

			//** Assert
			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr, r)
			assert.Len(t, configErr.Problems, 1)
			assert.Contains(t, configErr.Problems[0], "evening_pref_col_range")
		}
	})

	t.Run("Missing availability block", func(t *testing.T) {
		config := ColumnConfig{NameCol: 1, HoursCol: 2, Pref: ColumnRange{3, 9}}

		err := config.Validate()

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Contains(t, configErr.Error(), "at least one availability block")
	})

	t.Run("Evening availability only", func(t *testing.T) {
		config := ColumnConfig{NameCol: 1, HoursCol: 2, EveningAvail: ColumnRange{3, 9}}
		assert.NoError(t, config.Validate())
	})

	t.Run("Missing name column", func(t *testing.T) {
		config := valid
		config.NameCol = 0

		err := config.Validate()

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Contains(t, configErr.Problems[0], "name_col")
	})
}

func TestFitHeader(t *testing.T) {
	config := ColumnConfig{NameCol: 1, HoursCol: 2, Avail: ColumnRange{3, 9}}

	assert.NoError(t, config.FitHeader(9))

	var configErr *ConfigError
	require.ErrorAs(t, config.FitHeader(8), &configErr)
	assert.Contains(t, configErr.Problems[0], "avail_col_range")
}
