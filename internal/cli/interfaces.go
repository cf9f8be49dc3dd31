package cli

import "github.com/MKhiriev/go-pass-vault/internal/service"

// Prompter reads answers from the user.
type Prompter interface {
	// Line prints prompt and returns the entered line without its line
	// terminator.
	Line(prompt string) (string, error)

	// Password prints prompt and reads a line without echoing it.
	Password(prompt string) (string, error)
}

// Clipboard receives copied secrets.
type Clipboard interface {
	WriteAll(text string) error
}

// Services is what the command line needs from the service layer.
type Services interface {
	service.VaultService

	// NewSession returns a logged out session.
	NewSession() service.Session

	// GenerateCode returns the current one-time code for secret.
	GenerateCode(secret string) (string, error)
}
