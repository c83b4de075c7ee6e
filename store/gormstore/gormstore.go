// Package gormstore implements store.Store on gorm (sqlite or postgres).
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodrunner-api/models"
	"foodrunner-api/query"
	"foodrunner-api/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) first(ctx context.Context, dst any, id string) error {
	return translate(s.db.WithContext(ctx).Where("id = ?", id).First(dst).Error)
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.first(ctx, &u, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error)
}

// ---- restaurants ----

func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) RestaurantByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.first(ctx, &r, id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListRestaurants(ctx context.Context, q *query.Query) ([]models.Restaurant, int64, error) {
	var rows []models.Restaurant
	total, err := s.page(ctx, &models.Restaurant{}, &rows, q)
	return rows, total, err
}

func (s *Store) RestaurantsByCuisine(ctx context.Context, term string) ([]models.Restaurant, error) {
	var rows []models.Restaurant
	err := s.db.WithContext(ctx).
		Scopes(query.ElementContainsFold("cuisine", term)).
		Order("average_rating desc").
		Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) RestaurantIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	return ids, translate(err)
}

func (s *Store) UpdateRestaurant(ctx context.Context, r *models.Restaurant) error {
	return translate(s.db.WithContext(ctx).Save(r).Error)
}

func (s *Store) DeleteRestaurant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Restaurant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ---- menu ----

func (s *Store) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

func (s *Store) MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.first(ctx, &m, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) MenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	var rows []models.MenuItem
	if len(ids) == 0 {
		return rows, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) ListMenuItems(ctx context.Context, q *query.Query) ([]models.MenuItem, int64, error) {
	var rows []models.MenuItem
	total, err := s.page(ctx, &models.MenuItem{}, &rows, q)
	return rows, total, err
}

func (s *Store) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return translate(s.db.WithContext(ctx).Save(m).Error)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// page counts the filtered rows of model, then loads the requested window
// into dst.
func (s *Store) page(ctx context.Context, model, dst any, q *query.Query) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(model).Scopes(q.Filter).Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	if err := s.db.WithContext(ctx).Scopes(q.Filter, q.Window).Find(dst).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}
