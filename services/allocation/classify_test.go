package allocation

import (
	"testing"

	"github.com/velasquezhn3/vj-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPartySizeTiers(t *testing.T) {
	cases := map[int]string{
		1: models.UnitTypeSmall,
		3: models.UnitTypeSmall,
		4: models.UnitTypeMedium,
		6: models.UnitTypeMedium,
		7: models.UnitTypeLarge,
		9: models.UnitTypeLarge,
	}
	for partySize, expected := range cases {
		got, err := ClassifyPartySize(partySize)
		require.NoError(t, err, "party size %d", partySize)
		assert.Equal(t, expected, got, "party size %d", partySize)
	}
}

func TestClassifyPartySizeMonotonic(t *testing.T) {
	rank := map[string]int{
		models.UnitTypeSmall:  0,
		models.UnitTypeMedium: 1,
		models.UnitTypeLarge:  2,
	}
	previous := -1
	for partySize := 1; partySize <= MaxPartySize(); partySize++ {
		got, err := ClassifyPartySize(partySize)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[got], previous, "classification regressed at %d", partySize)
		previous = rank[got]
	}
}

func TestClassifyPartySizeTooLarge(t *testing.T) {
	_, err := ClassifyPartySize(MaxPartySize() + 1)
	assert.ErrorIs(t, err, ErrPartyTooLarge)
}

func TestClassifyPartySizeInvalid(t *testing.T) {
	for _, partySize := range []int{0, -3} {
		_, err := ClassifyPartySize(partySize)
		assert.ErrorIs(t, err, ErrInvalidPartySize)
	}
}

func TestNormalizeUnitTypeSynonyms(t *testing.T) {
	cases := map[string]string{
		"pequeña":        models.UnitTypeSmall,
		"PEQUENA":        models.UnitTypeSmall,
		"  Chica  ":      models.UnitTypeSmall,
		"🏠":              models.UnitTypeSmall,
		"Cabaña Mediana": models.UnitTypeMedium,
		"FAMILIAR":       models.UnitTypeMedium,
		"🏡":              models.UnitTypeMedium,
		"Grande":         models.UnitTypeLarge,
		"grupal":         models.UnitTypeLarge,
		"🏰":              models.UnitTypeLarge,
	}
	for label, expected := range cases {
		assert.Equal(t, expected, NormalizeUnitType(label), "label %q", label)
	}
}

func TestNormalizeUnitTypeFailsClosed(t *testing.T) {
	for _, label := range []string{"", "suite presidencial", "cabina", "🚀", "grande pequeña"} {
		assert.Equal(t, "", NormalizeUnitType(label), "label %q", label)
	}
}

func TestTierCapacity(t *testing.T) {
	assert.Equal(t, 3, TierCapacity(models.UnitTypeSmall))
	assert.Equal(t, 6, TierCapacity(models.UnitTypeMedium))
	assert.Equal(t, 9, TierCapacity(models.UnitTypeLarge))
	assert.Zero(t, TierCapacity("loft"))
}

func TestTierDisplayName(t *testing.T) {
	assert.Equal(t, "Cabaña pequeña", TierDisplayName(models.UnitTypeSmall))
	assert.Equal(t, "loft", TierDisplayName("loft"))
}
