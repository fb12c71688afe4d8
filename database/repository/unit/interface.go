package unitRepo

import "github.com/velasquezhn3/vj-sub000/models"

// UnitRepository defines read access to the cabin inventory. Units are
// reference data owned by the inventory collaborator; this core only reads
// and seeds defaults on an empty collection.
type UnitRepository interface {
	// GetByID retrieves a unit by its unique ID.
	GetByID(id string) (*models.Unit, error)
	// GetByType retrieves all units of the given type in stable ID order.
	GetByType(unitType string) ([]models.Unit, error)
	// GetAll retrieves the full inventory.
	GetAll() ([]models.Unit, error)
	// Seed inserts the given units if the collection is empty.
	Seed(units []models.Unit) error
}
