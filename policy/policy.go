// Package policy holds every authorization rule of the API in one table
// keyed by action and role.
package policy

import (
	"foodrunner-api/apperror"
	"foodrunner-api/models"
	"foodrunner-api/statemachine"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Role   models.UserRole
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

type Action string

const (
	CreateOrder          Action = "order:create"
	ReadOrder            Action = "order:read"
	UpdateOrderStatus    Action = "order:update_status"
	ListUserOrders       Action = "order:list_user"
	ListRestaurantOrders Action = "order:list_restaurant"
	CreateRestaurant     Action = "restaurant:create"
	ManageRestaurant     Action = "restaurant:manage"
	UploadDocuments      Action = "user:upload_documents"
	VerifyDocuments      Action = "user:verify_documents"
)

// Resource describes who owns the thing being acted on. UserID is the
// owning user (order customer, profile owner); RestaurantOwnerID is the
// owner of the restaurant involved, if any.
type Resource struct {
	UserID            string
	RestaurantOwnerID string
}

type rule func(p Principal, r Resource) bool

func isUser(p Principal, r Resource) bool {
	return r.UserID != "" && r.UserID == p.UserID
}

func isRestaurantOwner(p Principal, r Resource) bool {
	return p.Role == models.RoleRestaurant && r.RestaurantOwnerID != "" && r.RestaurantOwnerID == p.UserID
}

func anyOf(rules ...rule) rule {
	return func(p Principal, r Resource) bool {
		for _, fn := range rules {
			if fn(p, r) {
				return true
			}
		}
		return false
	}
}

func never(Principal, Resource) bool { return false }
func always(Principal, Resource) bool { return true }

// rules is indexed by action, then role. Admin is handled separately and
// may do anything except place orders.
var rules = map[Action]map[models.UserRole]rule{
	CreateOrder: {
		models.RoleCustomer: always,
	},
	ReadOrder: {
		models.RoleCustomer:   isUser,
		models.RoleRestaurant: anyOf(isUser, isRestaurantOwner),
	},
	UpdateOrderStatus: {
		models.RoleCustomer:   isUser,
		models.RoleRestaurant: isRestaurantOwner,
	},
	ListUserOrders: {
		models.RoleCustomer:   isUser,
		models.RoleRestaurant: isUser,
	},
	ListRestaurantOrders: {
		models.RoleRestaurant: isRestaurantOwner,
	},
	CreateRestaurant: {
		models.RoleRestaurant: always,
	},
	ManageRestaurant: {
		models.RoleRestaurant: isRestaurantOwner,
	},
	UploadDocuments: {
		models.RoleRestaurant: isUser,
	},
	VerifyDocuments: {},
}

var adminDenied = map[Action]bool{CreateOrder: true}

// Authorize returns nil when p may perform action on r, and a Forbidden
// error otherwise.
func Authorize(p Principal, action Action, r Resource) error {
	if p.IsAdmin() && !adminDenied[action] {
		return nil
	}
	fn, ok := rules[action][p.Role]
	if !ok {
		fn = never
	}
	if fn(p, r) {
		return nil
	}
	return apperror.Forbidden("Not authorized to perform this action")
}

// OrderActor resolves which role the caller plays in an order's lifecycle.
// Restaurant ownership wins over being the customer.
func OrderActor(p Principal, r Resource) (statemachine.Actor, bool) {
	switch {
	case p.IsAdmin():
		return statemachine.ActorAdmin, true
	case isRestaurantOwner(p, r):
		return statemachine.ActorRestaurant, true
	case isUser(p, r):
		return statemachine.ActorCustomer, true
	}
	return "", false
}
