package pricing

import (
	"testing"
	"time"

	"github.com/velasquezhn3/vj-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculateWeekdayNights(t *testing.T) {
	// 2025-08-10 is a Sunday; Sunday and Monday nights are weekday rates.
	total, err := Calculate(models.UnitTypeSmall, day("2025-08-10"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, total)
}

func TestCalculateWeekendNights(t *testing.T) {
	// 2025-08-15 is a Friday; both nights hit the weekend rate.
	total, err := Calculate(models.UnitTypeSmall, day("2025-08-15"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, total)
}

func TestCalculateMixedWeek(t *testing.T) {
	// Thursday start: Thu weekday + Fri/Sat weekend + Sun weekday, with the
	// multi-night discount applied to the total.
	total, err := Calculate(models.UnitTypeMedium, day("2025-08-14"), 4)
	require.NoError(t, err)
	expected := (2500 + 3000 + 3000 + 2500) * 0.9
	assert.InDelta(t, expected, total, 0.001)
}

func TestCalculateMultiNightDiscount(t *testing.T) {
	total, err := Calculate(models.UnitTypeSmall, day("2025-08-10"), 3)
	require.NoError(t, err)
	assert.InDelta(t, 4500*0.9, total, 0.001)
}

func TestCalculateUnknownType(t *testing.T) {
	_, err := Calculate("penthouse", day("2025-08-10"), 2)
	assert.ErrorIs(t, err, ErrUnknownUnitType)
}

func TestCalculateInvalidNights(t *testing.T) {
	for _, nights := range []int{0, -1} {
		_, err := Calculate(models.UnitTypeSmall, day("2025-08-10"), nights)
		assert.ErrorIs(t, err, ErrInvalidNights)
	}
}

func TestNightlyRates(t *testing.T) {
	weekday, weekend, err := NightlyRates(models.UnitTypeLarge)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, weekday)
	assert.Equal(t, 4200.0, weekend)

	_, _, err = NightlyRates("igloo")
	assert.ErrorIs(t, err, ErrUnknownUnitType)
}
