package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("location not found")
	ErrDuplicateRegion = errors.New("region name already exists")
	ErrInvalidLimit    = errors.New("invalid page limit")
)
