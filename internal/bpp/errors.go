package bpp

import "errors"

var (
	// ErrEmptyInput is returned when a file contains no usable content.
	ErrEmptyInput = errors.New("input contains no usable content")
	// ErrMalformedInput is returned when instance data cannot be interpreted in any supported layout.
	ErrMalformedInput = errors.New("malformed instance data")
	// ErrInfeasibleItem is returned when an item cannot fit in any bin of the stated capacity.
	ErrInfeasibleItem = errors.New("item size exceeds bin capacity")
)
