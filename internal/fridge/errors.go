package fridge

import "errors"

var (
	// ErrNotFound indicates the fridge entry does not exist.
	ErrNotFound = errors.New("fridge ingredient not found")

	// ErrMissingIngredient is returned when consuming a recipe whose ingredient is absent from the fridge.
	ErrMissingIngredient = errors.New("ingredient missing from the fridge")

	// ErrInvalidIngredient wraps every fridge entry validation failure.
	ErrInvalidIngredient = errors.New("invalid fridge ingredient")

	// ErrExpired indicates an expiration date in the past.
	ErrExpired = errors.New("expiration date is in the past")
)
