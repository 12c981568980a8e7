package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_UserLimiter_RefillsOverTime(t *testing.T) {
	// arrange
	limiter := newUserLimiter(2)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	// act & assert
	assert.True(t, limiter.allow("u-1", now))
	assert.True(t, limiter.allow("u-1", now))
	assert.False(t, limiter.allow("u-1", now))
	assert.True(t, limiter.allow("u-1", now.Add(30*time.Second)))
}

func Test_UserLimiter_EvictsIdleUsers(t *testing.T) {
	// arrange
	limiter := newUserLimiter(5)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	limiter.allow("u-1", now)
	limiter.allow("u-2", now)

	// act
	limiter.allow("u-3", now.Add(limiterIdleTTL+time.Second))

	// assert
	assert.Equal(t, 1, limiter.size())
}

func Test_UserLimiter_AllowsEverything_WhenDisabled(t *testing.T) {
	limiter := newUserLimiter(0)

	for range 100 {
		assert.True(t, limiter.allow("u-1", time.Now()))
	}
}
