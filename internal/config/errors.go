package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrLoad     = errors.New("config load failed")
	ErrInvalid  = errors.New("config invalid")
	ErrNotFound = errors.New("config file not found")
)
