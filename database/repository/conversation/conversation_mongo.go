package conversationRepo

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

// MongoConversationRepo implements ConversationRepository using MongoDB.
type MongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo creates a new instance of ConversationRepository using MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("conversation_states")
	repo := &MongoConversationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoConversationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Get retrieves the state record for a subject.
func (r *MongoConversationRepo) Get(subjectID string) (*models.ConversationState, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var state models.ConversationState
	if err := r.coll.FindOne(ctx, bson.M{"subject_id": subjectID}).Decode(&state); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch conversation state for subject %s: %w", subjectID, err)
	}
	return &state, nil
}

// Upsert writes the state record for its subject.
func (r *MongoConversationRepo) Upsert(state *models.ConversationState) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"subject_id": state.SubjectID}
	update := bson.M{"$set": state}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert conversation state for subject %s: %w", state.SubjectID, err)
	}
	return nil
}

// Delete removes the state record for a subject.
func (r *MongoConversationRepo) Delete(subjectID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"subject_id": subjectID}); err != nil {
		return fmt.Errorf("failed to delete conversation state for subject %s: %w", subjectID, err)
	}
	return nil
}

// DeleteExpired removes records whose expires_at has passed.
func (r *MongoConversationRepo) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired conversation states: %w", err)
	}
	return result.DeletedCount, nil
}
