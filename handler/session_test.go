package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Prune(t *testing.T) {
	clock := testNow
	s := NewSessions(0, 0)
	s.now = func() time.Time { return clock }

	s.Get(1)
	s.Get(2).Session = &Session{}
	s.Get(3)
	busy := s.Get(4)
	busy.Lock()
	defer busy.Unlock()

	clock = clock.Add(5 * time.Minute)
	s.Get(3)
	assert.Equal(t, 0, s.Prune(10*time.Minute, time.Hour))

	clock = clock.Add(10 * time.Minute)
	assert.Equal(t, 1, s.Prune(10*time.Minute, time.Hour))
	assert.Equal(t, 3, s.Len())

	clock = clock.Add(time.Hour)
	assert.Equal(t, 2, s.Prune(10*time.Minute, time.Hour))
	require.Equal(t, 1, s.Len())

	first := s.Get(1)
	assert.Nil(t, first.Session)
	assert.Equal(t, 2, s.Len())
}

func TestSessions_StartCleanup(t *testing.T) {
	clock := testNow
	s := NewSessions(0, 0)
	s.now = func() time.Time { return clock.Add(time.Hour) }
	s.users[1] = &UserState{lastSeen: clock}

	ctx, cancel := context.WithCancel(context.Background())
	done := s.StartCleanup(ctx, time.Millisecond, time.Minute, time.Minute)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
