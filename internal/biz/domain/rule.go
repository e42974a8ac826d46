package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule maps a trigger phrase to a deletion delay.
// A message whose text contains Trigger as a literal substring matches.
type Rule struct {
	Trigger string  `json:"trigger"`
	Delay   float64 `json:"delay"` // seconds
}

// Duration returns the delay as a time.Duration.
func (r Rule) Duration() time.Duration {
	return time.Duration(r.Delay * float64(time.Second))
}

// ParseDelay parses a delay expressed in seconds, with an optional trailing
// "s" suffix ("2", "1.5", "10s"). Seconds are the only supported unit; any
// other suffix or a negative value is rejected.
func ParseDelay(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "s")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: delay must be >= 0", ErrInvalidDelay)
	}
	return v, nil
}
