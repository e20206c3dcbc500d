package domain

import "errors"

var (
	// ErrInvalidFoodReference indicates a meal or plan referenced a food item that does not exist.
	ErrInvalidFoodReference = errors.New("invalid food item")
	// ErrEmptyMeal indicates a meal was submitted without any items.
	ErrEmptyMeal = errors.New("meal must contain at least one item")
	// ErrInvalidDateRange indicates a malformed start/end date pair.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidInput indicates a request field failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserExists indicates the username or email is already registered.
	ErrUserExists = errors.New("username or email already exists")
)
