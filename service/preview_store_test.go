package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviewStore(t *testing.T) {
	now := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)
	s := NewPreviewStore(time.Minute)
	s.now = func() time.Time { return now }

	a := s.Put("<html>a</html>")
	b := s.Put("<html>b</html>")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())

	html, ok := s.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "<html>a</html>", html)

	assert.True(t, s.Revoke(a))
	assert.False(t, s.Revoke(a), "second revoke is a no-op")
	_, ok = s.Get(a)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	_, ok = s.Get(b)
	assert.False(t, ok, "expired")
	assert.Zero(t, s.Len())
}
