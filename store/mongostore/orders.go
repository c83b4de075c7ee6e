package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodrunner-api/models"
	"foodrunner-api/store"
)

// CreateOrder inserts the order as one document; items and history are
// embedded so the write is atomic. Timestamps already set by the caller are
// kept.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = models.NewID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	if o.StatusHistory == nil {
		o.StatusHistory = []models.StatusChange{}
	}
	_, err := s.orders.InsertOne(ctx, o)
	return translate(err)
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, s.orders, bson.M{"_id": id})
}

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	if f.RestaurantIDs != nil && len(f.RestaurantIDs) == 0 {
		return []models.Order{}, nil
	}
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.RestaurantIDs != nil {
		filter["restaurant_id"] = bson.M{"$in": f.RestaurantIDs}
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	return findAll[models.Order](ctx, s.orders, filter, opts)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, change models.StatusChange) error {
	res, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": change.FromStatus},
		bson.M{
			"$set": bson.M{
				"status":            change.ToStatus,
				"status_updated_at": change.ChangedAt,
				"status_updated_by": change.ChangedBy,
				"updated_at":        change.ChangedAt,
			},
			"$push": bson.M{"status_history": change},
		},
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		n, err := s.orders.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return translate(err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return store.ErrStatusConflict
	}
	return nil
}
