package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/tgsilent/silentdelete/internal/biz/domain"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
)

// Fakes shared by the usecase tests.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMessenger struct {
	mu          sync.Mutex
	connected   bool
	authorized  bool
	codeSentTo  string
	signInErr   error
	passwordErr error
	deleteErr   error
	handler     repo.MessageHandler
	subscribed  int
	deleted     []domain.MessageRef
}

func (f *fakeMessenger) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *fakeMessenger) Close() error { return nil }

func (f *fakeMessenger) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeMessenger) IsAuthorized(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authorized, nil
}

func (f *fakeMessenger) SendCode(ctx context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codeSentTo = phone
	return nil
}

func (f *fakeMessenger) SignIn(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return f.signInErr
	}
	f.authorized = true
	return nil
}

func (f *fakeMessenger) SignInWithPassword(ctx context.Context, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwordErr != nil {
		return f.passwordErr
	}
	f.authorized = true
	return nil
}

func (f *fakeMessenger) OnNewMessage(handler repo.MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	f.subscribed++
}

func (f *fakeMessenger) Delete(ctx context.Context, ref domain.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeMessenger) deletedRefs() []domain.MessageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MessageRef, len(f.deleted))
	copy(out, f.deleted)
	return out
}

type memRules struct {
	mu    sync.Mutex
	rules []domain.Rule
}

func (m *memRules) Upsert(ctx context.Context, rule domain.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.Trigger == rule.Trigger {
			m.rules[i] = rule
			return nil
		}
	}
	m.rules = append(m.rules, rule)
	return nil
}

func (m *memRules) Remove(ctx context.Context, trigger string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.Trigger == trigger {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrRuleNotFound
}

func (m *memRules) List(ctx context.Context) ([]domain.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Rule, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

type memHistory struct {
	mu        sync.Mutex
	entries   []domain.HistoryEntry
	appendErr error
}

func (m *memHistory) Append(ctx context.Context, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memHistory) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memHistory) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}
