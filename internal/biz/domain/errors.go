package domain

import "errors"

// Sentinel errors surfaced by the usecase layer. The control surface maps
// them to its response vocabulary; none of them are fatal to the process.
var (
	// ErrLoginInProgress is returned by a login start while another login
	// session is still waiting for a code or password.
	ErrLoginInProgress = errors.New("login already in progress")

	// ErrNoSession is returned when a code or password is submitted but no
	// login session has been started.
	ErrNoSession = errors.New("no login session active")

	// ErrInvalidCode is returned for a wrong or expired one-time code. The
	// session state is unchanged and the caller may retry.
	ErrInvalidCode = errors.New("invalid or expired code")

	// ErrPasswordNeeded is returned by a code submission when the account
	// has two-step verification enabled; the caller must follow up with the
	// account password.
	ErrPasswordNeeded = errors.New("two-step verification password needed")

	// ErrRuleNotFound is returned when removing a trigger that is not in
	// the rule store.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidDelay is returned for a delay value that is not a
	// non-negative number of seconds.
	ErrInvalidDelay = errors.New("invalid delay")
)
