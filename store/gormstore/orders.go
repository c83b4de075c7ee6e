package gormstore

import (
	"context"

	"gorm.io/gorm"

	"foodrunner-api/models"
	"foodrunner-api/store"
)

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at") })
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	for i := range o.Items {
		o.Items[i].Position = i
	}
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	}))
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Scopes(withLines).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	orders := []models.Order{}
	if f.RestaurantIDs != nil && len(f.RestaurantIDs) == 0 {
		return orders, nil
	}

	tx := s.db.WithContext(ctx).Scopes(withLines)
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.RestaurantIDs != nil {
		tx = tx.Where("restaurant_id IN ?", f.RestaurantIDs)
	}
	if len(f.Statuses) > 0 {
		tx = tx.Where("status IN ?", f.Statuses)
	}
	err := tx.Order("created_at desc").Order("id").Find(&orders).Error
	return orders, translate(err)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, change models.StatusChange) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, change.FromStatus).
			Updates(map[string]any{
				"status":            change.ToStatus,
				"status_updated_at": change.ChangedAt,
				"status_updated_by": change.ChangedBy,
				"updated_at":        change.ChangedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return store.ErrNotFound
			}
			return store.ErrStatusConflict
		}

		change.ID = ""
		change.OrderID = id
		return tx.Create(&change).Error
	}))
}
