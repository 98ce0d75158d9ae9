package model

import "errors"

var (
	// ErrNotFound is returned by stores when a post or reply does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for values outside a fixed whitelist, such as
	// an unknown rating dimension.
	ErrInvalidInput = errors.New("invalid input")
)
