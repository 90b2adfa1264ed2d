package grantkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for GrantKit operations.
var (
	// ErrSelfReference is returned when an item is added as a child of itself.
	ErrSelfReference = errors.New("grantkit: item cannot be a child of itself")

	// ErrInvalidHierarchy is returned when a role is added as a child of a
	// permission. Permissions may never parent roles.
	ErrInvalidHierarchy = errors.New("grantkit: cannot add a role as a child of a permission")

	// ErrCycleDetected is returned when inserting an edge would create a loop
	// in the item hierarchy.
	ErrCycleDetected = errors.New("grantkit: hierarchy loop detected")

	// ErrItemNotPersisted is returned when an operation requires a stored item
	// but received one without a store-assigned identifier.
	ErrItemNotPersisted = errors.New("grantkit: item has not been persisted")

	// ErrNoUserID is returned when user ID is not found in context.
	ErrNoUserID = errors.New("grantkit: no user ID in context")

	// ErrUnauthorized is returned when an access check denies the request.
	ErrUnauthorized = errors.New("grantkit: unauthorized")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("grantkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err     error  // Underlying sentinel error
	Message string // Additional context
	Item    string // Item name involved (if applicable)
	Parent  string // Parent item name involved (if applicable)
	Child   string // Child item name involved (if applicable)
	UserID  string // User involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithItem adds the item name to the error.
func (e *Error) WithItem(name string) *Error {
	e.Item = name
	return e
}

// WithEdge adds the parent and child names to the error.
func (e *Error) WithEdge(parent, child string) *Error {
	e.Parent = parent
	e.Child = child
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// IsSelfReference checks if an error is a self-referential edge rejection.
func IsSelfReference(err error) bool {
	return errors.Is(err, ErrSelfReference)
}

// IsInvalidHierarchy checks if an error is a permission-parenting-role rejection.
func IsInvalidHierarchy(err error) bool {
	return errors.Is(err, ErrInvalidHierarchy)
}

// IsCycleDetected checks if an error is a hierarchy loop rejection.
func IsCycleDetected(err error) bool {
	return errors.Is(err, ErrCycleDetected)
}

// IsUnauthorized checks if an error is an authorization denial.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
