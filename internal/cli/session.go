package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/workers"
	"github.com/MKhiriev/go-pass-vault/models"
)

// withSession logs into the named vault, runs fn and logs out again. fn
// receives the master password that opened the session.
func (a *App) withSession(ctx context.Context, name string, fn func(s service.Session, password string) error) error {
	s := a.services.NewSession()
	defer s.Close()

	password, err := a.login(ctx, s, name)
	if err != nil {
		return err
	}

	w := workers.NewWorkers(a.workers, s, a.log)
	w.Start(ctx)
	defer w.Stop()

	return fn(s, password)
}

func (a *App) login(ctx context.Context, s service.Session, name string) (string, error) {
	for range maxPrompts {
		password, err := a.prompter.Password(fmt.Sprintf("Master password for %q: ", name))
		if err != nil {
			return "", err
		}

		result, err := s.Login(ctx, name, password)
		switch result {
		case models.LoginSuccess:
			return password, nil
		case models.LoginNeedsSecondFactor:
			if err = a.secondFactor(ctx, s); err != nil {
				return "", err
			}
			return password, nil
		case models.LoginWrongPassword:
			a.println(app.MsgWrongPassword)
		case models.LoginNotFound:
			return "", fmt.Errorf("%w: %s", service.ErrVaultNotFound, name)
		case models.LoginTooManyAttempts:
			return "", service.ErrTooManyAttempts
		default:
			return "", fmt.Errorf("%w: %w", ErrLoginFailed, err)
		}
	}

	return "", service.ErrWrongPassword
}

func (a *App) secondFactor(ctx context.Context, s service.Session) error {
	for range maxPrompts {
		code, err := a.prompter.Line("One-time code: ")
		if err != nil {
			return err
		}

		ok, err := s.CompleteSecondFactor(ctx, strings.TrimSpace(code))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		a.println(app.MsgWrongCode)
	}

	return service.ErrWrongCode
}

// newPassword asks for a password twice.
func (a *App) newPassword(prompt string) (string, error) {
	first, err := a.prompter.Password(prompt + ": ")
	if err != nil {
		return "", err
	}
	second, err := a.prompter.Password("Repeat " + strings.ToLower(prompt) + ": ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordsDoNotMatch
	}
	return first, nil
}
