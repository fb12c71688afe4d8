package unitRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/velasquezhn3/vj-sub000/database"
	"github.com/velasquezhn3/vj-sub000/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUnitRepo implements UnitRepository using MongoDB.
type MongoUnitRepo struct {
	coll *mongo.Collection
}

// NewMongoUnitRepo creates a new instance of UnitRepository using MongoDB.
func NewMongoUnitRepo() UnitRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("units")
	repo := &MongoUnitRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoUnitRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a unit by its unique ID.
func (r *MongoUnitRepo) GetByID(id string) (*models.Unit, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var unit models.Unit
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&unit); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch unit with id %s: %w", id, err)
	}
	return &unit, nil
}

// GetByType retrieves all units of the given type sorted by ID so candidate
// order is stable across calls.
func (r *MongoUnitRepo) GetByType(unitType string) ([]models.Unit, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"type": unitType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units of type %s: %w", unitType, err)
	}
	defer cursor.Close(ctx)

	var units []models.Unit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode units: %w", err)
	}
	return units, nil
}

// GetAll retrieves the full inventory sorted by ID.
func (r *MongoUnitRepo) GetAll() ([]models.Unit, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []models.Unit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode units: %w", err)
	}
	return units, nil
}

// Seed inserts the given units when the collection is empty.
func (r *MongoUnitRepo) Seed(units []models.Unit) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count units: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(units))
	for _, u := range units {
		docs = append(docs, u)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed units: %w", err)
	}
	return nil
}
