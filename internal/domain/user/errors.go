package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminRoleRequired  = errors.New("admin role required to change admin membership")
)
