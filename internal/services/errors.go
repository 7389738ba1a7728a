package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/circles/backend/internal/repositories"
)

// Error categories. Every error returned by this package matches exactly one
// of them with errors.Is, except storage failures which are passed through.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// categorized is a specific error that also matches its category.
type categorized struct {
	category error
	msg      string
}

func (e *categorized) Error() string        { return e.msg }
func (e *categorized) Is(target error) bool { return target == e.category }

func newError(category error, msg string) error {
	return &categorized{category: category, msg: msg}
}

var (
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrCircleNotFound       = newError(ErrNotFound, "circle not found")
	ErrMembershipNotFound   = newError(ErrNotFound, "membership not found")
	ErrPostNotFound         = newError(ErrNotFound, "post not found")
	ErrCommentNotFound      = newError(ErrNotFound, "comment not found")
	ErrAlbumNotFound        = newError(ErrNotFound, "album not found")
	ErrPhotoNotFound        = newError(ErrNotFound, "photo not found")
	ErrNotificationNotFound = newError(ErrNotFound, "notification not found")
	ErrReferenceGone        = newError(ErrNotFound, "the referenced record no longer exists")

	ErrDuplicateMembership = newError(ErrDuplicate, "user is already a member of this circle")
	ErrDuplicateLike       = newError(ErrDuplicate, "already liked")
	ErrDuplicateFollow     = newError(ErrDuplicate, "already following this user")
	ErrDuplicateAccount    = newError(ErrDuplicate, "email or username already registered")

	ErrSelfFollow         = newError(ErrValidation, "cannot follow yourself")
	ErrCreatorCannotLeave = newError(ErrForbidden, "the circle creator must transfer ownership before leaving")
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid email or password")
	ErrUnverifiedEmail    = newError(ErrUnauthenticated, "email must be verified to sign in to an existing account")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbidden(action string) error {
	return fmt.Errorf("%w: not allowed to %s", ErrForbidden, action)
}

// storageError maps repository sentinels onto this package's errors.
// notFound is returned for a missing row, duplicate for a unique violation.
// A foreign key violation always becomes ErrReferenceGone.
func storageError(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMissingReference):
		return ErrReferenceGone
	case notFound != nil && errors.Is(err, repositories.ErrRecordNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, repositories.ErrDuplicateKey):
		return duplicate
	}
	return err
}
