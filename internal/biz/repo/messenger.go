package repo

import (
	"context"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
)

// MessageHandler receives one inbound message event. Handlers are invoked
// from the client's update dispatch and must not block it; the supervisor's
// handler hands each event to its own goroutine.
type MessageHandler func(ctx context.Context, ev domain.MessageEvent)

// Deleter is the slice of the platform capability the deletion engine needs.
type Deleter interface {
	// Delete removes the referenced message for all participants.
	Delete(ctx context.Context, ref domain.MessageRef) error
}

// Messenger is the narrow capability surface of the chat-platform account.
// The concrete client (Telegram via gotd) is injected behind it; tests use
// a fake.
type Messenger interface {
	// Connect establishes the platform session. It must be called before
	// any other method.
	Connect(ctx context.Context) error
	// Close tears down the connection.
	Close() error
	// IsConnected reports whether the underlying transport is up.
	IsConnected() bool
	// IsAuthorized reports whether the account session can issue API calls.
	IsAuthorized(ctx context.Context) (bool, error)
	// SendCode asks the platform to send a one-time login code to phone.
	SendCode(ctx context.Context, phone string) error
	// SignIn completes login with the one-time code. Returns
	// domain.ErrInvalidCode for a wrong or expired code and
	// domain.ErrPasswordNeeded when the account has two-step verification.
	SignIn(ctx context.Context, code string) error
	// SignInWithPassword completes login with the two-step verification
	// password.
	SignInWithPassword(ctx context.Context, password string) error
	// OnNewMessage installs the handler for messages from the subscribed
	// sources (the account's own outgoing messages and the watched peer).
	OnNewMessage(handler MessageHandler)

	Deleter
}

// MessengerFactory builds a connected-capable Messenger for one application
// identity. The login usecase calls it on each login start.
type MessengerFactory func(appID int, appHash string) (Messenger, error)
