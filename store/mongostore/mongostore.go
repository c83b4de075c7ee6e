// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"foodrunner-api/models"
	"foodrunner-api/query"
	"foodrunner-api/store"
)

type Store struct {
	client      *mongo.Client
	users       *mongo.Collection
	restaurants *mongo.Collection
	menu        *mongo.Collection
	orders      *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials uri, verifies the connection and creates the indexes the
// store relies on.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:      client,
		users:       db.Collection("users"),
		restaurants: db.Collection("restaurants"),
		menu:        db.Collection("menu_items"),
		orders:      db.Collection("orders"),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.restaurants: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "average_rating", Value: -1}}},
		},
		s.menu: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		s.orders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
	for coll, specs := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err)
	}
	rows := []T{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func page[T any](ctx context.Context, coll *mongo.Collection, q *query.Query) ([]T, int64, error) {
	filter := q.BSON()
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}
	rows, err := findAll[T](ctx, coll, filter, q.FindOptions())
	return rows, total, err
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	u.CreatedAt, u.UpdatedAt = now(), now()
	_, err := s.users.InsertOne(ctx, u)
	return translate(err)
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"_id": id})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	return replace(ctx, s.users, u.ID, u)
}

// ---- restaurants ----

func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if r.ID == "" {
		r.ID = models.NewID()
	}
	r.CreatedAt, r.UpdatedAt = now(), now()
	_, err := s.restaurants.InsertOne(ctx, r)
	return translate(err)
}

func (s *Store) RestaurantByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return findOne[models.Restaurant](ctx, s.restaurants, bson.M{"_id": id})
}

func (s *Store) ListRestaurants(ctx context.Context, q *query.Query) ([]models.Restaurant, int64, error) {
	return page[models.Restaurant](ctx, s.restaurants, q)
}

func (s *Store) RestaurantsByCuisine(ctx context.Context, term string) ([]models.Restaurant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "average_rating", Value: -1}})
	return findAll[models.Restaurant](ctx, s.restaurants, query.ContainsFold("cuisine", term), opts)
}

func (s *Store) RestaurantIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	rows, err := findAll[models.Restaurant](ctx, s.restaurants, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (s *Store) UpdateRestaurant(ctx context.Context, r *models.Restaurant) error {
	r.UpdatedAt = now()
	return replace(ctx, s.restaurants, r.ID, r)
}

// DeleteRestaurant removes the menu first so a failure never leaves items
// pointing at a missing restaurant.
func (s *Store) DeleteRestaurant(ctx context.Context, id string) error {
	if _, err := s.menu.DeleteMany(ctx, bson.M{"restaurant_id": id}); err != nil {
		return translate(err)
	}
	res, err := s.restaurants.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---- menu ----

func (s *Store) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	if m.ID == "" {
		m.ID = models.NewID()
	}
	m.CreatedAt, m.UpdatedAt = now(), now()
	_, err := s.menu.InsertOne(ctx, m)
	return translate(err)
}

func (s *Store) MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, s.menu, bson.M{"_id": id})
}

func (s *Store) MenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return []models.MenuItem{}, nil
	}
	return findAll[models.MenuItem](ctx, s.menu, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) ListMenuItems(ctx context.Context, q *query.Query) ([]models.MenuItem, int64, error) {
	return page[models.MenuItem](ctx, s.menu, q)
}

func (s *Store) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	m.UpdatedAt = now()
	return replace(ctx, s.menu, m.ID, m)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := s.menu.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
