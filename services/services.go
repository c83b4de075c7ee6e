// Package services holds the business rules of the API. Handlers translate
// HTTP to these calls; stores persist what they decide.
package services

import (
	"errors"

	"foodrunner-api/apperror"
	"foodrunner-api/query"
	"foodrunner-api/store"
)

// Page is one window of a listing, already projected to the selected fields.
type Page struct {
	Data       any
	Count      int
	Pagination *query.Pagination
}

// storeErr maps store sentinels onto the error taxonomy.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperror.Conflict("Duplicate field value entered")
	case errors.Is(err, store.ErrStatusConflict):
		return apperror.Conflict("Order status was changed by someone else, reload and try again")
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, "store failure")
}
