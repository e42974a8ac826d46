package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"", 0, true},
		{"0", 0, true},
		{"2", 2, true},
		{"1.5", 1.5, true},
		{"10s", 10, true},
		{"0.1s", 0.1, true},
		{" 3 ", 3, true},
		{"-1", 0, false},
		{"-0.5s", 0, false},
		{"5m", 0, false},
		{"abc", 0, false},
		{"s", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseDelay(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidDelay, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestRuleDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), Rule{Trigger: "x"}.Duration())
	assert.Equal(t, 1500*time.Millisecond, Rule{Trigger: "x", Delay: 1.5}.Duration())
}

func TestNewHistoryEntry(t *testing.T) {
	e := NewHistoryEntry("get the promo now", "promo", 0)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "get the promo now", e.Text)
	assert.Equal(t, "promo", e.Rule)
	assert.Zero(t, e.Delay)
	assert.WithinDuration(t, time.Now(), e.Time, time.Minute)
}

func TestLoginStatePending(t *testing.T) {
	assert.False(t, LoginUnstarted.Pending())
	assert.True(t, LoginCodeRequested.Pending())
	assert.True(t, LoginAwaitingPassword.Pending())
	assert.False(t, LoginAuthorized.Pending())
}
