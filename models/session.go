package models

// LoginResult is the outcome of a login attempt.
type LoginResult int

const (
	LoginSuccess LoginResult = iota
	LoginWrongPassword
	LoginTooManyAttempts
	LoginError
	LoginNotFound
	LoginNeedsSecondFactor
)

func (r LoginResult) String() string {
	switch r {
	case LoginSuccess:
		return "success"
	case LoginWrongPassword:
		return "wrong password"
	case LoginTooManyAttempts:
		return "too many attempts"
	case LoginError:
		return "error"
	case LoginNotFound:
		return "vault not found"
	case LoginNeedsSecondFactor:
		return "second factor required"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a vault session.
type State int

const (
	StateLoggedOut State = iota
	StateAwaitingSecondFactor
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged out"
	case StateAwaitingSecondFactor:
		return "awaiting second factor"
	case StateLoggedIn:
		return "logged in"
	default:
		return "unknown"
	}
}
