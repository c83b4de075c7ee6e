package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func NewID() string {
	return uuid.NewString()
}

func ensureID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (r *Restaurant) BeforeCreate(*gorm.DB) error   { ensureID(&r.ID); return nil }
func (m *MenuItem) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { ensureID(&i.ID); return nil }
func (s *StatusChange) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }
