// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks vault and account records before they reach
// storage, and judges the strength of new master passwords.
//
// [ModelValidator] validates [models.Vault] and [models.Account] against
// their struct tags and maps the first failing field to a sentinel error.
// [PasswordPolicy] scores a password with zxcvbn and rejects it below a
// configured minimum.
package validators

import "context"

// Validator checks value. ModelValidator reads the trailing strings as the
// Field* names to restrict the check to; PasswordPolicy reads them as user
// inputs (such as the vault name) that a password must not lean on.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
