package services

import (
	"errors"
	"fmt"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrStoreSuspended    = errors.New("store is suspended")
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record already exists")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrInvalidToken      = errors.New("invalid or expired session token")
	ErrNoOpenSession     = errors.New("no open register session")
	ErrSessionOpen       = errors.New("a register session is already open")
	ErrStoreClosed       = errors.New("store is not taking orders")
	ErrDeliveryTaken     = errors.New("delivery already taken by another courier")
)

// ValidationError reports an invalid input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
