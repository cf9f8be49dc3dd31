// Package twofactor wraps github.com/pquerna/otp to provide the second
// factor used when unlocking a vault.
package twofactor

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrEmptySecret is returned when a code is requested for an empty secret.
var ErrEmptySecret = errors.New("empty second-factor secret")

const (
	period = 30
	skew   = 1
)

type totpProvider struct {
	issuer string
	now    func() time.Time
	rand   io.Reader
}

// Option customizes a Provider built by NewTOTPProvider.
type Option func(*totpProvider)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *totpProvider) { p.now = now }
}

// WithRand replaces crypto/rand as the secret source.
func WithRand(r io.Reader) Option {
	return func(p *totpProvider) { p.rand = r }
}

// NewTOTPProvider returns a SHA-1, six digit, 30 second TOTP [Provider],
// the parameters authenticator apps assume by default.
func NewTOTPProvider(issuer string, opts ...Option) Provider {
	p := &totpProvider{
		issuer: issuer,
		now:    time.Now,
		rand:   rand.Reader,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *totpProvider) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (p *totpProvider) GenerateSecret(accountName string) (string, error) {
	if accountName == "" {
		accountName = p.issuer
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: accountName,
		Period:      period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		Rand:        p.rand,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}

	return key.Secret(), nil
}

func (p *totpProvider) GenerateCode(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	code, err := totp.GenerateCodeCustom(secret, p.now(), p.validateOpts())
	if err != nil {
		return "", fmt.Errorf("generate totp code: %w", err)
	}
	return code, nil
}

func (p *totpProvider) ValidateCode(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, p.now(), p.validateOpts())
	return err == nil && ok
}
