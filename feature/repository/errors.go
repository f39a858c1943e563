package repository

import "errors"

var (
	// ErrRepositoryNotFound is returned for an unknown repository id.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrTypeNotFound is returned for an unknown type id.
	ErrTypeNotFound = errors.New("type not found")
	// ErrTypeExists is returned when creating a type id that is already registered.
	ErrTypeExists = errors.New("type already exists")
	// ErrInvalidType is returned for a definition the repository cannot accept.
	ErrInvalidType = errors.New("invalid type")
)
