package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// LoginUsecase drives the account login handshake:
// unstarted -> code requested -> (awaiting password) -> authorized.
// Exactly one session is live at a time; a new start is rejected while one
// is waiting on a code or password. Authorized is terminal.
type LoginUsecase struct {
	factory repo.MessengerFactory
	log     *slog.Logger

	mu        sync.Mutex
	state     domain.LoginState
	phone     string
	messenger repo.Messenger
}

// NewLoginUsecase creates a login usecase. The factory builds the concrete
// platform client per start request.
func NewLoginUsecase(factory repo.MessengerFactory, log *slog.Logger) *LoginUsecase {
	return &LoginUsecase{
		factory: factory,
		log:     log.With("component", "login"),
	}
}

// Start begins a login: builds the client, connects, and either
// short-circuits to authorized (stored session still valid) or requests a
// one-time code. Returns domain.ErrLoginInProgress while a previous session
// is still waiting on a code or password.
func (uc *LoginUsecase) Start(ctx context.Context, appID int, appHash, phone string) (domain.StartResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.Pending() {
		return 0, domain.ErrLoginInProgress
	}

	m, err := uc.factory(appID, appHash)
	if err != nil {
		return 0, fmt.Errorf("create client: %w", err)
	}
	if err := m.Connect(ctx); err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}

	uc.messenger = m
	uc.phone = phone

	authorized, err := m.IsAuthorized(ctx)
	if err != nil {
		return 0, fmt.Errorf("authorization status: %w", err)
	}
	if authorized {
		uc.state = domain.LoginAuthorized
		uc.log.Info("already logged in", "phone", phone)
		return domain.StartAlreadyLoggedIn, nil
	}

	if err := m.SendCode(ctx, phone); err != nil {
		return 0, fmt.Errorf("send code: %w", err)
	}
	uc.state = domain.LoginCodeRequested
	uc.log.Info("one-time code sent", "phone", phone)
	return domain.StartCodeSent, nil
}

// SubmitCode completes login with the one-time code. On success the session
// becomes authorized. Returns domain.ErrPasswordNeeded (and moves to the
// awaiting-password state) when the account has two-step verification,
// domain.ErrInvalidCode for a bad or expired code (state unchanged, the
// caller may retry), and domain.ErrNoSession when no login was started.
func (uc *LoginUsecase) SubmitCode(ctx context.Context, code string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	switch uc.state {
	case domain.LoginCodeRequested:
	case domain.LoginAwaitingPassword:
		return domain.ErrPasswordNeeded
	default:
		return domain.ErrNoSession
	}

	err := uc.messenger.SignIn(ctx, code)
	switch {
	case err == nil:
		uc.state = domain.LoginAuthorized
		uc.log.Info("login complete", "phone", uc.phone)
		return nil
	case errors.Is(err, domain.ErrPasswordNeeded):
		uc.state = domain.LoginAwaitingPassword
		return domain.ErrPasswordNeeded
	case errors.Is(err, domain.ErrInvalidCode):
		return err
	default:
		return fmt.Errorf("sign in: %w", err)
	}
}

// SubmitPassword completes login with the two-step verification password.
// Valid only once a code submission reported that a password is needed.
// Any failure other than a missing session leaves the state unresolved so
// the caller can retry.
func (uc *LoginUsecase) SubmitPassword(ctx context.Context, password string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state != domain.LoginAwaitingPassword {
		return domain.ErrNoSession
	}

	if err := uc.messenger.SignInWithPassword(ctx, password); err != nil {
		return fmt.Errorf("sign in with password: %w", err)
	}
	uc.state = domain.LoginAuthorized
	uc.log.Info("login complete", "phone", uc.phone)
	return nil
}

// State returns the current login state.
func (uc *LoginUsecase) State() domain.LoginState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}

// Messenger returns the live platform client, or nil before the first login
// start.
func (uc *LoginUsecase) Messenger() repo.Messenger {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.messenger
}

// Authorized reports whether the account can currently issue API calls,
// asking the live client. With no client it is false.
func (uc *LoginUsecase) Authorized(ctx context.Context) bool {
	m := uc.Messenger()
	if m == nil {
		return false
	}
	ok, err := m.IsAuthorized(ctx)
	if err != nil {
		uc.log.Warn("authorization check failed", "error", err)
		return false
	}
	return ok
}
