package domain

// LoginState is the state of the account login handshake.
type LoginState int

const (
	// LoginUnstarted means no login has been requested yet.
	LoginUnstarted LoginState = iota
	// LoginCodeRequested means a one-time code was sent and is awaited.
	LoginCodeRequested
	// LoginAwaitingPassword means the account requires its two-step
	// verification password to finish signing in.
	LoginAwaitingPassword
	// LoginAuthorized is the terminal state; there is no logout.
	LoginAuthorized
)

// String implements fmt.Stringer.
func (s LoginState) String() string {
	switch s {
	case LoginUnstarted:
		return "unstarted"
	case LoginCodeRequested:
		return "code_requested"
	case LoginAwaitingPassword:
		return "awaiting_password"
	case LoginAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Pending reports whether a login session is in flight, which blocks a new
// start request.
func (s LoginState) Pending() bool {
	return s == LoginCodeRequested || s == LoginAwaitingPassword
}

// StartResult is the outcome of a successful login start.
type StartResult int

const (
	// StartAlreadyLoggedIn means the stored session is still authorized and
	// no code/password steps are needed.
	StartAlreadyLoggedIn StartResult = iota
	// StartCodeSent means a one-time code was sent to the account.
	StartCodeSent
)
