package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("order item references missing product")
	ErrAlreadyPaid       = errors.New("order already paid")
	ErrNotPaid           = errors.New("order not paid")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoItems           = errors.New("order has no items")
	ErrInvalidItem       = errors.New("invalid order item")
)
