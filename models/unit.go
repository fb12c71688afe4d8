package models

// Canonical accommodation types, ordered by capacity tier.
const (
	UnitTypeSmall  = "small"
	UnitTypeMedium = "medium"
	UnitTypeLarge  = "large"
)

// Unit is a physical bookable cabin. Read-mostly reference data owned by the
// inventory collaborator; this core only reads it.
type Unit struct {
	ID          string `bson:"id" json:"id"`
	Type        string `bson:"type" json:"type"`
	Capacity    int    `bson:"capacity" json:"capacity"`
	DisplayName string `bson:"display_name" json:"display_name"`
}
