package handler

import (
	"errors"

	"go-stocktrack/internal/model"
)

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return 400
	case errors.Is(err, model.ErrNotFound):
		return 404
	case errors.Is(err, model.ErrDuplicateKey):
		return 409
	case errors.Is(err, model.ErrInsufficientStock):
		return 422
	default:
		return 500
	}
}
