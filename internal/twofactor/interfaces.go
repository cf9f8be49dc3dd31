package twofactor

//go:generate mockgen -source=interfaces.go -destination=../mock/twofactor_mock.go -package=mock

// Provider generates and checks time-based one-time codes (RFC 6238).
type Provider interface {
	// GenerateSecret returns a new base32 shared secret labelled with
	// accountName.
	GenerateSecret(accountName string) (string, error)

	// GenerateCode returns the code valid for secret at the current time.
	GenerateCode(secret string) (string, error)

	// ValidateCode reports whether code matches secret, tolerating one
	// time step of clock skew in either direction.
	ValidateCode(secret, code string) bool
}
