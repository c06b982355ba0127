package service

import (
	"errors"

	"github.com/alexanderramin/incidentboard/internal/repository"
)

var (
	// ErrNotFound is returned for ids that match nothing.
	ErrNotFound = repository.ErrNotFound

	// ErrInvalidStatus is returned when asked to store an unknown status.
	ErrInvalidStatus = errors.New("invalid incident status")

	// ErrInvalidUser is returned when a user has an unknown role or no email.
	ErrInvalidUser = errors.New("invalid user")
)
