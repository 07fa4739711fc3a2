package catalog

import "errors"

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidQuery = errors.New("invalid query parameters")
	ErrInvalidInput = errors.New("invalid product input")
)
