package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodrunner-api/apperror"
	"foodrunner-api/models"
	"foodrunner-api/statemachine"
)

var (
	alice = Principal{UserID: "u-alice", Role: models.RoleCustomer}
	bob   = Principal{UserID: "u-bob", Role: models.RoleCustomer}
	chef  = Principal{UserID: "u-chef", Role: models.RoleRestaurant}
	rival = Principal{UserID: "u-rival", Role: models.RoleRestaurant}
	root  = Principal{UserID: "u-root", Role: models.RoleAdmin}
)

func TestAuthorize_ReadOrder(t *testing.T) {
	order := Resource{UserID: alice.UserID, RestaurantOwnerID: chef.UserID}

	tests := []struct {
		name    string
		caller  Principal
		allowed bool
	}{
		{"order's customer", alice, true},
		{"restaurant owner", chef, true},
		{"admin", root, true},
		{"another customer", bob, false},
		{"another restaurant", rival, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, ReadOrder, order)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.Is(err, apperror.KindForbidden))
			}
		})
	}
}

func TestAuthorize_OwnerIDCannotBeSpoofedByCustomer(t *testing.T) {
	// a customer who happens to be recorded as owner is still not a restaurant
	r := Resource{RestaurantOwnerID: alice.UserID}
	assert.Error(t, Authorize(alice, ManageRestaurant, r))
}

func TestAuthorize_RoleMatrix(t *testing.T) {
	tests := []struct {
		name    string
		caller  Principal
		action  Action
		res     Resource
		allowed bool
	}{
		{"customer creates order", alice, CreateOrder, Resource{}, true},
		{"restaurant cannot order", chef, CreateOrder, Resource{}, false},
		{"admin cannot order", root, CreateOrder, Resource{}, false},
		{"restaurant creates restaurant", chef, CreateRestaurant, Resource{}, true},
		{"customer cannot create restaurant", alice, CreateRestaurant, Resource{}, false},
		{"owner manages", chef, ManageRestaurant, Resource{RestaurantOwnerID: chef.UserID}, true},
		{"non-owner cannot manage", rival, ManageRestaurant, Resource{RestaurantOwnerID: chef.UserID}, false},
		{"admin manages", root, ManageRestaurant, Resource{RestaurantOwnerID: chef.UserID}, true},
		{"own order list", alice, ListUserOrders, Resource{UserID: alice.UserID}, true},
		{"foreign order list", bob, ListUserOrders, Resource{UserID: alice.UserID}, false},
		{"owner lists restaurant orders", chef, ListRestaurantOrders, Resource{RestaurantOwnerID: chef.UserID}, true},
		{"customer lists restaurant orders", alice, ListRestaurantOrders, Resource{RestaurantOwnerID: chef.UserID}, false},
		{"restaurant uploads own documents", chef, UploadDocuments, Resource{UserID: chef.UserID}, true},
		{"customer uploads documents", alice, UploadDocuments, Resource{UserID: alice.UserID}, false},
		{"only admin verifies", chef, VerifyDocuments, Resource{UserID: chef.UserID}, false},
		{"admin verifies", root, VerifyDocuments, Resource{UserID: chef.UserID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.action, tt.res)
			assert.Equal(t, tt.allowed, err == nil, "err: %v", err)
		})
	}
}

func TestOrderActor(t *testing.T) {
	order := Resource{UserID: alice.UserID, RestaurantOwnerID: chef.UserID}

	actor, ok := OrderActor(alice, order)
	assert.True(t, ok)
	assert.Equal(t, statemachine.ActorCustomer, actor)

	actor, ok = OrderActor(chef, order)
	assert.True(t, ok)
	assert.Equal(t, statemachine.ActorRestaurant, actor)

	actor, ok = OrderActor(root, order)
	assert.True(t, ok)
	assert.Equal(t, statemachine.ActorAdmin, actor)

	_, ok = OrderActor(bob, order)
	assert.False(t, ok)
}
