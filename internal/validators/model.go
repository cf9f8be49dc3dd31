package validators

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldName targets the unique vault name.
	FieldName = "name"

	// FieldPassHash targets the stored password hash of a vault.
	FieldPassHash = "pass_hash"

	// FieldSalt targets the key derivation salt of a vault.
	FieldSalt = "salt"

	// FieldTitle targets the (plaintext) account title.
	FieldTitle = "title"

	// FieldType targets the account category tag.
	FieldType = "type"

	// FieldVaultID targets the owning vault of an account.
	FieldVaultID = "vault_id"
)

var (
	vaultFields = map[string]string{
		FieldName:     "Name",
		FieldPassHash: "PassHash",
		FieldSalt:     "Salt",
	}
	accountFields = map[string]string{
		FieldTitle:   "Title",
		FieldType:    "Type",
		FieldVaultID: "VaultID",
	}

	// errors reported per struct field
	fieldErrors = map[string]error{
		"Name":     ErrInvalidVaultName,
		"PassHash": ErrInvalidPassHash,
		"Salt":     ErrInvalidSalt,
		"Title":    ErrEmptyTitle,
		"Type":     ErrInvalidType,
		"VaultID":  ErrInvalidVaultID,
	}
)

// ModelValidator implements [Validator] for [models.Vault] and
// [models.Account] using their `validate` struct tags.
type ModelValidator struct {
	validate *validator.Validate
}

// NewModelValidator constructs a ModelValidator and returns it as the
// Validator interface.
func NewModelValidator() Validator {
	return &ModelValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Without fields, vaults are checked on name, hash and
// salt, accounts on title and type.
func (v *ModelValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Vault:
		return v.validateVault(ctx, value, fields...)
	case *models.Vault:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateVault(ctx, *value, fields...)
	case models.Account:
		return v.validateAccount(ctx, value, fields...)
	case *models.Account:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateAccount(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *ModelValidator) validateVault(ctx context.Context, vault models.Vault, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldPassHash, FieldSalt}
	}
	return v.partial(ctx, vault, vaultFields, fields)
}

func (v *ModelValidator) validateAccount(ctx context.Context, account models.Account, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldType}
	}

	for _, f := range fields {
		if f == FieldVaultID && account.VaultID <= 0 {
			return ErrInvalidVaultID
		}
	}

	return v.partial(ctx, account, accountFields, fields)
}

func (v *ModelValidator) partial(ctx context.Context, obj any, known map[string]string, fields []string) error {
	structFields := make([]string, 0, len(fields))
	for _, f := range fields {
		name, ok := known[f]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		if f == FieldVaultID {
			continue
		}
		structFields = append(structFields, name)
	}
	if len(structFields) == 0 {
		return nil
	}

	err := v.validate.StructPartialCtx(ctx, obj, structFields...)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	first := validationErrors[0]
	if sentinel, ok := fieldErrors[first.StructField()]; ok {
		return fmt.Errorf("%w: failed on %q", sentinel, first.Tag())
	}
	return err
}
