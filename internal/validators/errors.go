package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidVaultName = errors.New("invalid vault name")
	ErrInvalidPassHash  = errors.New("invalid password hash")
	ErrInvalidSalt      = errors.New("invalid salt")
	ErrEmptyTitle       = errors.New("account title is required")
	ErrInvalidType      = errors.New("invalid account type")
	ErrInvalidVaultID   = errors.New("invalid vault id")

	ErrEmptyPassword = errors.New("password is empty")
	ErrWeakPassword  = errors.New("password is too weak")
)
