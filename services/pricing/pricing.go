package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/velasquezhn3/vj-sub000/models"
)

var (
	// ErrUnknownUnitType is returned for a type with no rate entry.
	ErrUnknownUnitType = errors.New("unknown unit type")
	// ErrInvalidNights is returned for a non-positive night count.
	ErrInvalidNights = errors.New("night count must be positive")
)

// nightlyRate holds per-type nightly prices. Weekend applies to Friday and
// Saturday nights.
type nightlyRate struct {
	Weekday float64
	Weekend float64
}

var rates = map[string]nightlyRate{
	models.UnitTypeSmall:  {Weekday: 1500, Weekend: 1800},
	models.UnitTypeMedium: {Weekday: 2500, Weekend: 3000},
	models.UnitTypeLarge:  {Weekday: 3500, Weekend: 4200},
}

// Stays of at least three nights get a flat discount on the total.
const (
	multiNightThreshold = 3
	multiNightDiscount  = 0.10
)

// Calculate returns the total price for a stay of the given length starting
// on the given date. A night is priced by the weekday it begins on.
func Calculate(unitType string, start time.Time, nights int) (float64, error) {
	rate, ok := rates[unitType]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnitType, unitType)
	}
	if nights <= 0 {
		return 0, ErrInvalidNights
	}

	total := 0.0
	for i := 0; i < nights; i++ {
		night := start.AddDate(0, 0, i)
		switch night.Weekday() {
		case time.Friday, time.Saturday:
			total += rate.Weekend
		default:
			total += rate.Weekday
		}
	}

	if nights >= multiNightThreshold {
		total *= 1 - multiNightDiscount
	}
	return total, nil
}

// NightlyRates exposes the rate table for quoting in conversation replies.
func NightlyRates(unitType string) (weekday, weekend float64, err error) {
	rate, ok := rates[unitType]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownUnitType, unitType)
	}
	return rate.Weekday, rate.Weekend, nil
}
