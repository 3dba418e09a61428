package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	limiter := NewRateLimiter(clock.Now)

	// Given a first shot, always allowed
	req.True(limiter.Allow("A", "shoot", ShootInterval))

	// When a second shot arrives too early
	clock.Advance(150 * time.Millisecond)

	// Then it is refused and does not reset the window
	req.False(limiter.Allow("A", "shoot", ShootInterval))
	clock.Advance(50 * time.Millisecond)
	req.True(limiter.Allow("A", "shoot", ShootInterval))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	limiter := NewRateLimiter(clock.Now)

	req.True(limiter.Allow("A", "shoot", ShootInterval))
	req.True(limiter.Allow("A", "hit", HitInterval))
	req.True(limiter.Allow("B", "shoot", ShootInterval))
	req.False(limiter.Allow("A", "shoot", ShootInterval))
	req.Equal(2, limiter.Len())
}

func TestRateLimiter_Forget(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	limiter := NewRateLimiter(clock.Now)

	req.True(limiter.Allow("A", "shoot", ShootInterval))
	limiter.Forget("A")

	req.Zero(limiter.Len())
	req.True(limiter.Allow("A", "shoot", ShootInterval))
}
