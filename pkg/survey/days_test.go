package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	for i, name := range DayNames() {
		day, ok := ParseDay(name)
		assert.True(t, ok)
		assert.Equal(t, Day(i), day)
	}

	day, ok := ParseDay("  wednesday ")
	assert.True(t, ok)
	assert.Equal(t, Wednesday, day)

	_, ok = ParseDay("Caturday")
	assert.False(t, ok)
	_, ok = ParseDay("")
	assert.False(t, ok)
}

func TestDayString(t *testing.T) {
	assert.Equal(t, "Monday", Monday.String())
	assert.Equal(t, "Sunday", Sunday.String())
	assert.Equal(t, "Day(9)", Day(9).String())
	assert.Len(t, DayNames(), DaysPerWeek)
}

func TestDayNamesReturnsACopy(t *testing.T) {
	names := DayNames()
	names[0] = "Funday"

	assert.Equal(t, "Monday", DayNames()[0])
	assert.Equal(t, "Monday", Monday.String())
}
