package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that a referenced user, post, or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden reports that the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfFollow reports an attempt to follow oneself.
	ErrSelfFollow = errors.New("cannot follow self")
)

// asNotFound converts a record-not-found store error into ErrNotFound and
// passes every other error through untouched.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
