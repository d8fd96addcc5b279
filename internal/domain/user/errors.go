package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrEmptyUpdate        = errors.New("at least one parameter to update should be provided")
)
