package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/usecase"
)

// DefaultPollInterval is how often the supervisor checks whether the account
// session has become authorized.
const DefaultPollInterval = 2 * time.Second

// Supervisor polls the login state and, on the first tick where a client
// exists, is connected, and is authorized, subscribes the deletion engine to
// inbound message events. The subscription is installed at most once per
// process lifetime; the supervisor never deactivates it.
type Supervisor struct {
	login  *usecase.LoginUsecase
	engine *usecase.EngineUsecase
	log    *slog.Logger

	interval  time.Duration
	once      sync.Once
	activated atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSupervisor creates a supervisor. A non-positive interval falls back to
// DefaultPollInterval.
func NewSupervisor(login *usecase.LoginUsecase, engine *usecase.EngineUsecase, interval time.Duration, log *slog.Logger) *Supervisor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Supervisor{
		login:    login,
		engine:   engine,
		interval: interval,
		log:      log.With("component", "supervisor"),
	}
}

// Start starts the polling loop.
func (s *Supervisor) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	s.log.Info("supervisor started", "interval", s.interval)
}

// Stop stops the polling loop. An already-installed subscription stays
// installed.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("supervisor stopped")
}

// Activated reports whether the engine subscription has been installed.
func (s *Supervisor) Activated() bool {
	return s.activated.Load()
}

func (s *Supervisor) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick(s.ctx)
		}
	}
}

// tick activates the engine once the session is ready. Safe to call any
// number of times; the latch guarantees at most one subscription.
func (s *Supervisor) tick(ctx context.Context) {
	m := s.login.Messenger()
	if m == nil || !m.IsConnected() {
		return
	}
	authorized, err := m.IsAuthorized(ctx)
	if err != nil {
		s.log.Warn("authorization check failed", "error", err)
		return
	}
	if !authorized {
		return
	}

	s.once.Do(func() {
		m.OnNewMessage(func(ctx context.Context, ev domain.MessageEvent) {
			// Each event gets its own goroutine so a delayed deletion
			// never holds up other events or the dispatch loop.
			go func() {
				if err := s.engine.HandleMessage(ctx, m, ev); err != nil {
					s.log.Error("event handling failed", "msg_id", ev.Ref.ID, "error", err)
				}
			}()
		})
		s.activated.Store(true)
		s.log.Info("silent delete handler active")
	})
}
