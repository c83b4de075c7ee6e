package models

import "time"

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusPreparing, StatusReadyForPickup,
	StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ActiveStatuses are the states a kitchen still has to act on
var ActiveStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReadyForPickup}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentWallet         PaymentMethod = "wallet"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentCard, PaymentWallet:
		return true
	}
	return false
}

type Order struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID          string         `json:"user_id" gorm:"not null;index;size:36" bson:"user_id"`
	RestaurantID    string         `json:"restaurant_id" gorm:"not null;index;size:36" bson:"restaurant_id"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items"`
	DeliveryAddress string         `json:"delivery_address" gorm:"not null" bson:"delivery_address"`
	PaymentMethod   PaymentMethod  `json:"payment_method" bson:"payment_method"`
	Notes           string         `json:"notes,omitempty" bson:"notes,omitempty"`
	Subtotal        float64        `json:"subtotal" bson:"subtotal"`
	Tax             float64        `json:"tax" bson:"tax"`
	DeliveryFee     float64        `json:"delivery_fee" bson:"delivery_fee"`
	Total           float64        `json:"total" bson:"total"`
	Status          OrderStatus    `json:"status" gorm:"not null;index" bson:"status"`
	StatusUpdatedAt *time.Time     `json:"status_updated_at,omitempty" bson:"status_updated_at,omitempty"`
	StatusUpdatedBy string         `json:"status_updated_by,omitempty" bson:"status_updated_by,omitempty"`
	StatusHistory   []StatusChange `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"status_history"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

// OrderItem is a snapshot of a menu item at the time the order was placed
type OrderItem struct {
	ID         string  `json:"-" gorm:"primaryKey;size:36" bson:"-"`
	OrderID    string  `json:"-" gorm:"not null;index;size:36" bson:"-"`
	MenuItemID string  `json:"menu_item_id" gorm:"not null;size:36" bson:"menu_item_id"`
	Name       string  `json:"name" bson:"name"`
	Price      float64 `json:"price" gorm:"not null" bson:"price"`
	Quantity   int     `json:"quantity" gorm:"not null" bson:"quantity"`
	LineTotal  float64 `json:"line_total" bson:"line_total"`
	Position   int     `json:"-" bson:"-"`
}

// StatusChange is one entry of an order's audit trail
type StatusChange struct {
	ID         string      `json:"-" gorm:"primaryKey;size:36" bson:"-"`
	OrderID    string      `json:"-" gorm:"not null;index;size:36" bson:"-"`
	FromStatus OrderStatus `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null" bson:"to_status"`
	ChangedBy  string      `json:"changed_by" bson:"changed_by"`
	Note       string      `json:"note,omitempty" bson:"note,omitempty"`
	ChangedAt  time.Time   `json:"changed_at" bson:"changed_at"`
}
