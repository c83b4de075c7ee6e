package statemachine

import (
	"strings"

	"foodrunner-api/apperror"
	"foodrunner-api/models"
)

type Actor string

const (
	ActorRestaurant Actor = "restaurant"
	ActorCustomer   Actor = "customer"
	ActorAdmin      Actor = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// edges is the order lifecycle graph
var edges = []struct {
	From, To models.OrderStatus
	By       []Actor
}{
	{models.StatusPending, models.StatusPreparing, []Actor{ActorRestaurant}},
	{models.StatusPending, models.StatusCancelled, []Actor{ActorRestaurant, ActorCustomer}},
	{models.StatusPreparing, models.StatusReadyForPickup, []Actor{ActorRestaurant}},
	{models.StatusPreparing, models.StatusCancelled, []Actor{ActorRestaurant}},
	{models.StatusReadyForPickup, models.StatusOutForDelivery, []Actor{ActorRestaurant}},
	{models.StatusReadyForPickup, models.StatusCancelled, []Actor{ActorRestaurant}},
	{models.StatusOutForDelivery, models.StatusDelivered, []Actor{ActorRestaurant}},
	{models.StatusOutForDelivery, models.StatusCancelled, []Actor{ActorRestaurant}},
}

// validTransitions is the authoritative state machine definition. Admins
// may take every edge of the graph.
var validTransitions = func() []Transition {
	var ts []Transition
	for _, e := range edges {
		for _, a := range e.By {
			ts = append(ts, Transition{From: e.From, To: e.To, Actor: a})
		}
		ts = append(ts, Transition{From: e.From, To: e.To, Actor: ActorAdmin})
	}
	return ts
}()

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return apperror.Unprocessable(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
