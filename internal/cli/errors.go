package cli

import (
	"errors"

	"github.com/MKhiriev/go-pass-vault/internal/app"
)

var (
	ErrUsage               = errors.New("invalid usage")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrPasswordsDoNotMatch = errors.New(app.MsgPasswordsDoNotMatch)
	ErrInvalidAccountID    = errors.New("invalid account id")
	ErrLoginFailed         = errors.New("login failed")
)
