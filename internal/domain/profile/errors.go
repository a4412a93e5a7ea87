package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrManagerNotFound = errors.New("manager not found")
)
