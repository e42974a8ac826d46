// Package telegram implements the platform capability interface on a real
// Telegram account session via gotd/td (MTProto).
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// Options configures the Telegram client.
type Options struct {
	// SessionDBPath is the sqlite file holding the MTProto session blob.
	SessionDBPath string
	// TargetPeer is the username of the watched peer whose incoming
	// messages are evaluated alongside the account's own outgoing ones.
	// Empty means own messages only.
	TargetPeer string
	// Debug enables the underlying client's development logging.
	Debug bool
}

// Client wraps a gotd Telegram client behind repo.Messenger.
type Client struct {
	cli    *telegram.Client
	store  *SessionStorage
	target string
	log    *zap.Logger

	mu       sync.Mutex
	phone    string
	codeHash string
	handler  repo.MessageHandler
	targetID int64 // resolved watched-peer user ID, 0 if none

	runCtx    context.Context
	runCancel context.CancelFunc
	ready     chan struct{}
	done      chan struct{}
	runErr    error
}

var _ repo.Messenger = (*Client)(nil)

// NewClient builds a Messenger for one application identity.
func NewClient(appID int, appHash string, opts Options) (*Client, error) {
	store, err := NewSessionStorage(opts.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}

	logger := zap.NewNop()
	if opts.Debug {
		logger, _ = zap.NewDevelopment()
	}

	c := &Client{
		store:  store,
		target: opts.TargetPeer,
		log:    logger,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(c.onNewMessage)
	dispatcher.OnNewChannelMessage(c.onNewChannelMessage)

	c.cli = telegram.NewClient(appID, appHash, telegram.Options{
		SessionStorage: store,
		UpdateHandler:  dispatcher,
		Logger:         logger,
	})
	return c, nil
}

// Connect starts the client's run loop in the background and waits until the
// connection is up.
func (c *Client) Connect(ctx context.Context) error {
	c.runCtx, c.runCancel = context.WithCancel(context.Background())

	go func() {
		defer close(c.done)
		c.runErr = c.cli.Run(c.runCtx, func(ctx context.Context) error {
			close(c.ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-c.ready:
		return nil
	case <-c.done:
		if c.runErr != nil {
			return fmt.Errorf("connect: %w", c.runErr)
		}
		return errors.New("connect: client stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the run loop and releases the session storage.
func (c *Client) Close() error {
	if c.runCancel != nil {
		c.runCancel()
		<-c.done
	}
	return c.store.Close()
}

// IsConnected reports whether the run loop is up.
func (c *Client) IsConnected() bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// IsAuthorized asks Telegram whether the stored session can issue API calls.
func (c *Client) IsAuthorized(ctx context.Context) (bool, error) {
	status, err := c.cli.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("auth status: %w", err)
	}
	return status.Authorized, nil
}

// SendCode requests a one-time login code for phone and remembers the code
// hash needed to complete sign-in.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	sent, err := c.cli.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return fmt.Errorf("unexpected sent code response %T", sent)
	}

	c.mu.Lock()
	c.phone = phone
	c.codeHash = code.PhoneCodeHash
	c.mu.Unlock()
	return nil
}

// SignIn completes login with the one-time code.
func (c *Client) SignIn(ctx context.Context, code string) error {
	c.mu.Lock()
	phone, hash := c.phone, c.codeHash
	c.mu.Unlock()
	if phone == "" {
		return domain.ErrNoSession
	}

	_, err := c.cli.Auth().SignIn(ctx, phone, code, hash)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrPasswordAuthNeeded):
		return domain.ErrPasswordNeeded
	case tgerr.Is(err, "PHONE_CODE_INVALID", "PHONE_CODE_EXPIRED"):
		return domain.ErrInvalidCode
	default:
		return fmt.Errorf("sign in: %w", err)
	}
}

// SignInWithPassword completes login with the two-step verification
// password.
func (c *Client) SignInWithPassword(ctx context.Context, password string) error {
	if _, err := c.cli.Auth().Password(ctx, password); err != nil {
		return fmt.Errorf("password sign in: %w", err)
	}
	return nil
}

// OnNewMessage installs the handler and resolves the watched peer. Called
// once, after the session is authorized.
func (c *Client) OnNewMessage(handler repo.MessageHandler) {
	var targetID int64
	if c.target != "" {
		id, err := c.resolveUsername(c.runCtx, c.target)
		if err != nil {
			c.log.Warn("resolve watched peer failed", zap.String("peer", c.target), zap.Error(err))
		} else {
			targetID = id
		}
	}

	c.mu.Lock()
	c.handler = handler
	c.targetID = targetID
	c.mu.Unlock()
}

func (c *Client) resolveUsername(ctx context.Context, username string) (int64, error) {
	res, err := c.cli.API().ContactsResolveUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("resolve %q: %w", username, err)
	}
	peer, ok := res.Peer.(*tg.PeerUser)
	if !ok {
		return 0, fmt.Errorf("peer %q is not a user", username)
	}
	return peer.UserID, nil
}

func (c *Client) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	msg, ok := u.Message.(*tg.Message)
	if !ok {
		return nil
	}

	c.mu.Lock()
	handler, targetID := c.handler, c.targetID
	c.mu.Unlock()
	if handler == nil || !watched(msg, targetID) {
		return nil
	}

	handler(ctx, domain.MessageEvent{
		Ref:  domain.MessageRef{ID: msg.ID},
		Text: msg.Message,
	})
	return nil
}

func (c *Client) onNewChannelMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
	msg, ok := u.Message.(*tg.Message)
	if !ok || !msg.Out {
		return nil
	}
	peer, ok := msg.PeerID.(*tg.PeerChannel)
	if !ok {
		return nil
	}
	channel, ok := e.Channels[peer.ChannelID]
	if !ok {
		return nil
	}

	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler == nil {
		return nil
	}

	handler(ctx, domain.MessageEvent{
		Ref: domain.MessageRef{
			ID:         msg.ID,
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		},
		Text: msg.Message,
	})
	return nil
}

// watched reports whether the message comes from one of the two subscribed
// sources: the account itself, or the watched peer's dialog.
func watched(msg *tg.Message, targetID int64) bool {
	if msg.Out {
		return true
	}
	if targetID == 0 {
		return false
	}
	peer, ok := msg.PeerID.(*tg.PeerUser)
	return ok && peer.UserID == targetID
}

// Delete removes the message for all participants.
func (c *Client) Delete(ctx context.Context, ref domain.MessageRef) error {
	api := c.cli.API()

	if ref.ChannelID != 0 {
		_, err := api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: ref.ChannelID, AccessHash: ref.AccessHash},
			ID:      []int{ref.ID},
		})
		if err != nil {
			return fmt.Errorf("delete channel message %d: %w", ref.ID, err)
		}
		return nil
	}

	_, err := api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		Revoke: true,
		ID:     []int{ref.ID},
	})
	if err != nil {
		return fmt.Errorf("delete message %d: %w", ref.ID, err)
	}
	return nil
}
