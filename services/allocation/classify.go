package allocation

import (
	"errors"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/utils"
)

var (
	// ErrInvalidPartySize is returned for non-positive party sizes.
	ErrInvalidPartySize = errors.New("party size must be positive")
	// ErrPartyTooLarge is returned when no single unit tier can host the party.
	ErrPartyTooLarge = errors.New("party size exceeds the largest unit capacity")
)

// capacityTier maps a unit type to the largest party it hosts. Order matters:
// classification walks the tiers smallest first.
type capacityTier struct {
	Type        string
	MaxGuests   int
	DisplayName string
}

var tiers = []capacityTier{
	{Type: models.UnitTypeSmall, MaxGuests: 3, DisplayName: "Cabaña pequeña"},
	{Type: models.UnitTypeMedium, MaxGuests: 6, DisplayName: "Cabaña mediana"},
	{Type: models.UnitTypeLarge, MaxGuests: 9, DisplayName: "Cabaña grande"},
}

// ClassifyPartySize maps a party size onto the smallest tier that fits it.
func ClassifyPartySize(partySize int) (string, error) {
	if partySize <= 0 {
		return "", ErrInvalidPartySize
	}
	for _, tier := range tiers {
		if partySize <= tier.MaxGuests {
			return tier.Type, nil
		}
	}
	return "", ErrPartyTooLarge
}

// MaxPartySize returns the capacity of the largest tier.
func MaxPartySize() int {
	return tiers[len(tiers)-1].MaxGuests
}

// TierCapacity returns the largest party a canonical type hosts, or 0 for an
// unknown type.
func TierCapacity(unitType string) int {
	for _, tier := range tiers {
		if tier.Type == unitType {
			return tier.MaxGuests
		}
	}
	return 0
}

// TierDisplayName returns the guest-facing name for a canonical type.
func TierDisplayName(unitType string) string {
	for _, tier := range tiers {
		if tier.Type == unitType {
			return tier.DisplayName
		}
	}
	return unitType
}

// unitTypeSynonyms maps folded free-text labels to canonical types. Lookup is
// exact after folding; anything else is unrecognized, never guessed.
var unitTypeSynonyms = map[string]string{
	"pequena":        models.UnitTypeSmall,
	"cabana pequena": models.UnitTypeSmall,
	"chica":          models.UnitTypeSmall,
	"sencilla":       models.UnitTypeSmall,
	"small":          models.UnitTypeSmall,
	"🏠":              models.UnitTypeSmall,
	"mediana":        models.UnitTypeMedium,
	"cabana mediana": models.UnitTypeMedium,
	"familiar":       models.UnitTypeMedium,
	"medium":         models.UnitTypeMedium,
	"🏡":              models.UnitTypeMedium,
	"grande":         models.UnitTypeLarge,
	"cabana grande":  models.UnitTypeLarge,
	"grupal":         models.UnitTypeLarge,
	"large":          models.UnitTypeLarge,
	"🏰":              models.UnitTypeLarge,
}

// NormalizeUnitType resolves a free-text accommodation label to a canonical
// type, tolerating case and diacritic variation. Returns "" when the label is
// unrecognized.
func NormalizeUnitType(label string) string {
	return unitTypeSynonyms[utils.FoldText(label)]
}
