package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAirportNotFound = errors.New("airport not found")
	ErrDuplicate       = errors.New("duplicate row")
)
