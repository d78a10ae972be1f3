// Package chainhost stands in for "the hosting chain / transaction
// runtime" the design notes place out of scope: a clock producing the
// monotonic 32-bit block_timestamp every pool write needs, and a
// rate-limited dispatcher for mutating calls, modeled as an external
// collaborator rather than part of the core's own state machine.
//
// Clock generalizes the teacher's pkg/sol/clock.go (which reads a live
// Solana sysvar clock account) into an interface backed by
// github.com/benbjohnson/clock, so tests can advance time deterministically
// instead of parsing a byte-for-byte sysvar layout. Host's rate limiting is
// a direct port of pkg/sol/rate_limiter.go's wrapper around
// golang.org/x/time/rate.
package chainhost

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"
)

// Clock produces the 32-bit block_timestamp the oracle and tick records
// key their "outside" snapshots against.
type Clock interface {
	// BlockTimestamp returns the current time truncated to 32 bits, the
	// same mod-2^32 truncation original_source's _block_timestamp()
	// performs on a live unix_timestamp.
	BlockTimestamp() uint32
}

// SystemClock is the production Clock, backed by a real wall clock.
type SystemClock struct {
	underlying clock.Clock
}

// NewSystemClock constructs a Clock backed by the real wall clock.
func NewSystemClock() *SystemClock {
	return &SystemClock{underlying: clock.New()}
}

// BlockTimestamp implements Clock.
func (c *SystemClock) BlockTimestamp() uint32 {
	return uint32(c.underlying.Now().Unix())
}

// MockClock is a Clock backed by a benbjohnson/clock.Mock, for
// deterministic oracle/timing tests.
type MockClock struct {
	Mock *clock.Mock
}

// NewMockClock constructs a MockClock starting at the given unix time.
func NewMockClock(startUnix int64) *MockClock {
	m := clock.NewMock()
	m.Set(time.Unix(startUnix, 0).UTC())
	return &MockClock{Mock: m}
}

// BlockTimestamp implements Clock.
func (c *MockClock) BlockTimestamp() uint32 {
	return uint32(c.Mock.Now().Unix())
}

// Host rate-limits mutating calls dispatched to a pool, the same wrapper
// shape as the teacher's RateLimiter.Wait.
type Host struct {
	clock   Clock
	limiter *rate.Limiter
}

// NewHost constructs a Host with the given clock and a token-bucket rate
// limit of callsPerSecond mutating calls per second.
func NewHost(c Clock, callsPerSecond int) *Host {
	return &Host{
		clock:   c,
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), callsPerSecond),
	}
}

// BlockTimestamp returns the host's current block timestamp.
func (h *Host) BlockTimestamp() uint32 {
	return h.clock.BlockTimestamp()
}

// Dispatch blocks until the rate limiter admits a new mutating call, then
// invokes fn. Returns an error if the context is cancelled while waiting,
// or whatever error fn returns.
func (h *Host) Dispatch(ctx context.Context, fn func() error) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("chainhost: rate limit wait: %w", err)
	}
	return fn()
}
