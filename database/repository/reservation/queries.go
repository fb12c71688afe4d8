package reservationRepo

import (
	"fmt"
	"time"

	"github.com/velasquezhn3/vj-sub000/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FindOverlapping returns reservations on the given unit whose date range
// overlaps [startDate, endDate) and whose status is in the given set. Dates
// are ISO "YYYY-MM-DD" strings, so lexicographic comparison matches
// chronological order.
func (r *MongoReservationRepo) FindOverlapping(unitID, startDate, endDate string, statuses []string) ([]models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	// Half-open convention: existing [s, e) overlaps requested [S, E)
	// iff s < E and e > S.
	filter := bson.M{
		"unit_id":    unitID,
		"status":     bson.M{"$in": statuses},
		"start_date": bson.M{"$lt": endDate},
		"end_date":   bson.M{"$gt": startDate},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations for unit %s: %w", unitID, err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping reservations: %w", err)
	}
	return results, nil
}

// TransitionStatus atomically moves a reservation from one of the given
// statuses to a new status. Extra $set fields (e.g. unit_id, proof_ref) are
// applied in the same update so there is no window between guard and write.
func (r *MongoReservationRepo) TransitionStatus(id string, from []string, to string, extra bson.M) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": from},
	}
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		set[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to transition reservation %s to %s: %w", id, to, err)
	}
	return result.MatchedCount > 0, nil
}

// DeleteExpiredPending removes pending reservations created before the
// cutoff. Running it again with nothing expired deletes zero rows.
func (r *MongoReservationRepo) DeleteExpiredPending(cutoff time.Time) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.ReservationPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pending reservations: %w", err)
	}
	return result.DeletedCount, nil
}
