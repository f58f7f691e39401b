package domain

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleOwner       Role = "owner"
	RoleContributor Role = "contributor"
	RoleMember      Role = "member"
	RoleSubscriber  Role = "subscriber"
)

// IsRecipeRole reports whether r may appear on a recipe association.
func (r Role) IsRecipeRole() bool {
	return r == RoleOwner || r == RoleContributor || r == RoleSubscriber
}

// IsGroupRole reports whether r may appear on a group membership.
func (r Role) IsGroupRole() bool {
	return r == RoleOwner || r == RoleContributor || r == RoleMember
}

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrBadRequest       = errors.New("bad request")
	ErrEmpty            = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("already exists")

	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
)

// ValidationError names the part of a request that failed validation.
type ValidationError struct {
	Field  SecondaryDomain
	Reason string
}

func NewValidationError(field SecondaryDomain, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}
