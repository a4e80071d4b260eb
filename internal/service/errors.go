package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidPromo       = errors.New("invalid promo code")
	ErrExpiredPromo       = errors.New("promo code expired")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCategoryExists     = errors.New("category already exists")
	ErrNoFiles            = errors.New("no files uploaded")
	ErrTooManyImages      = errors.New("max 7 images allowed")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
