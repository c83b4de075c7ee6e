package models

import "time"

type RestaurantAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Zipcode string `json:"zipcode" bson:"zipcode"`
	Country string `json:"country" bson:"country"`
}

// GeoPoint is a GeoJSON point, coordinates are [lng, lat]
type GeoPoint struct {
	Type             string    `json:"type,omitempty" bson:"type,omitempty"`
	Coordinates      []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	FormattedAddress string    `json:"formatted_address,omitempty" bson:"formatted_address,omitempty"`
}

type DeliveryWindow struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

type OpeningHours struct {
	Open  string `json:"open" bson:"open"`
	Close string `json:"close" bson:"close"`
}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var PriceRanges = []string{"$", "$$", "$$$", "$$$$"}

type Restaurant struct {
	ID            string                  `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name          string                  `json:"name" gorm:"not null" bson:"name"`
	Description   string                  `json:"description" bson:"description"`
	Website       string                  `json:"website,omitempty" bson:"website,omitempty"`
	Phone         string                  `json:"phone" bson:"phone"`
	Email         string                  `json:"email" bson:"email"`
	Address       RestaurantAddress       `json:"address" gorm:"serializer:json;type:text" bson:"address"`
	Location      GeoPoint                `json:"location" gorm:"serializer:json;type:text" bson:"location"`
	Cuisine       []string                `json:"cuisine" gorm:"serializer:json;type:text" bson:"cuisine"`
	AverageRating float64                 `json:"average_rating" gorm:"index" bson:"average_rating"`
	Photo         string                  `json:"photo" bson:"photo"`
	PriceRange    string                  `json:"price_range" bson:"price_range"`
	DeliveryTime  DeliveryWindow          `json:"delivery_time" gorm:"serializer:json;type:text" bson:"delivery_time"`
	IsOpen        bool                    `json:"is_open" bson:"is_open"`
	OpeningHours  map[string]OpeningHours `json:"opening_hours,omitempty" gorm:"serializer:json;type:text" bson:"opening_hours,omitempty"`
	OwnerID       string                  `json:"owner_id" gorm:"not null;index;size:36" bson:"owner_id"`
	CreatedAt     time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at" bson:"updated_at"`
}

// MenuCategory is the fixed set of menu sections
type MenuCategory string

const (
	CategoryAppetizer MenuCategory = "appetizer"
	CategoryMain      MenuCategory = "main"
	CategoryDessert   MenuCategory = "dessert"
	CategoryBeverage  MenuCategory = "beverage"
	CategorySides     MenuCategory = "sides"
	CategoryPopular   MenuCategory = "popular"
	CategorySpecial   MenuCategory = "special"
	CategoryOther     MenuCategory = "other"
)

var MenuCategories = []MenuCategory{
	CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage,
	CategorySides, CategoryPopular, CategorySpecial, CategoryOther,
}

func (c MenuCategory) Valid() bool {
	for _, v := range MenuCategories {
		if c == v {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID              string       `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	RestaurantID    string       `json:"restaurant_id" gorm:"not null;size:36;uniqueIndex:idx_menu_restaurant_name" bson:"restaurant_id"`
	Name            string       `json:"name" gorm:"not null;uniqueIndex:idx_menu_restaurant_name" bson:"name"`
	Description     string       `json:"description" bson:"description"`
	Price           float64      `json:"price" gorm:"not null" bson:"price"`
	Image           string       `json:"image" bson:"image"`
	Category        MenuCategory `json:"category" gorm:"index" bson:"category"`
	IsVegetarian    bool         `json:"is_vegetarian" bson:"is_vegetarian"`
	IsVegan         bool         `json:"is_vegan" bson:"is_vegan"`
	IsGlutenFree    bool         `json:"is_gluten_free" bson:"is_gluten_free"`
	SpiceLevel      int          `json:"spice_level" bson:"spice_level"`
	Calories        int          `json:"calories" bson:"calories"`
	PreparationTime int          `json:"preparation_time" bson:"preparation_time"` // minutes
	Featured        bool         `json:"featured" bson:"featured"`
	InStock         bool         `json:"in_stock" bson:"in_stock"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}
