package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

func newLoginWith(f *fakeMessenger) *LoginUsecase {
	factory := func(appID int, appHash string) (repo.Messenger, error) {
		return f, nil
	}
	return NewLoginUsecase(factory, testLogger())
}

func TestLoginStartSendsCode(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{}
	uc := newLoginWith(fake)

	result, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)
	assert.Equal(t, domain.StartCodeSent, result)
	assert.Equal(t, domain.LoginCodeRequested, uc.State())
	assert.Equal(t, "+15550001", fake.codeSentTo)
	assert.True(t, fake.IsConnected())
}

func TestLoginStartAlreadyAuthorized(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{authorized: true}
	uc := newLoginWith(fake)

	result, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)
	assert.Equal(t, domain.StartAlreadyLoggedIn, result)
	assert.Equal(t, domain.LoginAuthorized, uc.State())
	assert.Empty(t, fake.codeSentTo)
}

func TestLoginStartWhilePending(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{}
	uc := newLoginWith(fake)

	_, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)

	_, err = uc.Start(ctx, 12345, "hash", "+15550002")
	assert.ErrorIs(t, err, domain.ErrLoginInProgress)

	// The pending session is untouched.
	assert.Equal(t, domain.LoginCodeRequested, uc.State())
	assert.Equal(t, "+15550001", fake.codeSentTo)
}

func TestLoginSubmitCodeSuccess(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{}
	uc := newLoginWith(fake)

	_, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)

	require.NoError(t, uc.SubmitCode(ctx, "41509"))
	assert.Equal(t, domain.LoginAuthorized, uc.State())
	assert.True(t, uc.Authorized(ctx))
}

func TestLoginSubmitCodeInvalidThenRetry(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{signInErr: domain.ErrInvalidCode}
	uc := newLoginWith(fake)

	_, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)

	err = uc.SubmitCode(ctx, "00000")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.Equal(t, domain.LoginCodeRequested, uc.State())

	fake.mu.Lock()
	fake.signInErr = nil
	fake.mu.Unlock()

	require.NoError(t, uc.SubmitCode(ctx, "41509"))
	assert.Equal(t, domain.LoginAuthorized, uc.State())
}

func TestLoginPasswordFlow(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMessenger{signInErr: domain.ErrPasswordNeeded}
	uc := newLoginWith(fake)

	_, err := uc.Start(ctx, 12345, "hash", "+15550001")
	require.NoError(t, err)

	err = uc.SubmitCode(ctx, "41509")
	assert.ErrorIs(t, err, domain.ErrPasswordNeeded)
	assert.Equal(t, domain.LoginAwaitingPassword, uc.State())

	// A second code submission keeps demanding the password.
	err = uc.SubmitCode(ctx, "41509")
	assert.ErrorIs(t, err, domain.ErrPasswordNeeded)

	require.NoError(t, uc.SubmitPassword(ctx, "hunter2"))
	assert.Equal(t, domain.LoginAuthorized, uc.State())
}

func TestLoginSubmitWithoutSession(t *testing.T) {
	ctx := context.Background()
	uc := newLoginWith(&fakeMessenger{})

	assert.ErrorIs(t, uc.SubmitCode(ctx, "41509"), domain.ErrNoSession)
	assert.ErrorIs(t, uc.SubmitPassword(ctx, "hunter2"), domain.ErrNoSession)
}

func TestLoginAuthorizedWithoutClient(t *testing.T) {
	uc := newLoginWith(&fakeMessenger{})
	assert.False(t, uc.Authorized(context.Background()))
	assert.Nil(t, uc.Messenger())
}
