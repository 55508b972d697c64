package model

import "errors"

var (
	// ErrAccountExists indicates the account handle is already registered.
	ErrAccountExists = errors.New("account already exists")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserBanned indicates the account is banned and cannot authenticate.
	ErrUserBanned = errors.New("account is banned")
	// ErrWrongPassword indicates password verification failed.
	ErrWrongPassword = errors.New("wrong password")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrPasswordTooShort indicates the password is below the minimum length.
	ErrPasswordTooShort = errors.New("password is too short")
	// ErrNotAuthenticated indicates the request carries no valid identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAdmin indicates the operation requires admin rights.
	ErrNotAdmin = errors.New("admin rights required")
	// ErrAdminUndeletable indicates an attempt to delete an admin user.
	ErrAdminUndeletable = errors.New("admin users cannot be deleted")
	// ErrInvalidStatus indicates an unknown user status code.
	ErrInvalidStatus = errors.New("invalid user status")
)
