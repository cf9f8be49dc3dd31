package validators

import (
	"context"
	"fmt"

	"github.com/nbutton23/zxcvbn-go"
)

// MaxPasswordScore is the best score zxcvbn reports.
const MaxPasswordScore = 4

// PasswordPolicy implements [Validator] for master passwords. A password is
// accepted when it is non-empty and its zxcvbn score reaches MinScore.
// A MinScore of 0 accepts any non-empty password.
//
// Field arguments to Validate are treated as user inputs (e.g. the vault
// name) that zxcvbn penalizes when they appear in the password.
type PasswordPolicy struct {
	MinScore int
}

// NewPasswordPolicy constructs a PasswordPolicy and returns it as the
// Validator interface. The score is clamped to the zxcvbn range.
func NewPasswordPolicy(minScore int) Validator {
	minScore = max(0, min(minScore, MaxPasswordScore))
	return &PasswordPolicy{MinScore: minScore}
}

func (p *PasswordPolicy) Validate(_ context.Context, obj any, userInputs ...string) error {
	password, ok := obj.(string)
	if !ok {
		return ErrUnsupportedType
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if p.MinScore <= 0 {
		return nil
	}

	strength := zxcvbn.PasswordStrength(password, userInputs)
	if strength.Score < p.MinScore {
		return fmt.Errorf("%w: score %d, need %d", ErrWeakPassword, strength.Score, p.MinScore)
	}

	return nil
}
