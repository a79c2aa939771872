package services

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnknownStatus      = errors.New("unknown status value")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)
