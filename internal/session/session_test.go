package session

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	m := NewManager(time.Hour, quartz.NewMock(t))

	s := m.Create()
	require.NotEmpty(t, s.ID)
	assert.False(t, s.SignedIn)
	assert.False(t, s.InProgress())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestGetUnknownSession(t *testing.T) {
	t.Parallel()
	m := NewManager(time.Hour, quartz.NewMock(t))

	_, err := m.Get("no-such-session")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	m := NewManager(time.Hour, clock)

	s := m.Create()
	clock.Advance(30 * time.Minute)

	// Activity refreshes the deadline.
	_, err := m.Get(s.ID)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = m.Get(s.ID)
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = m.Get(s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	m := NewManager(time.Hour, clock)

	stale := m.Create()
	clock.Advance(2 * time.Hour)
	fresh := m.Create()

	removed := m.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())

	_, err := m.Get(stale.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(fresh.ID)
	require.NoError(t, err)
}

func TestFlashesAreOneShot(t *testing.T) {
	t.Parallel()
	m := NewManager(time.Hour, quartz.NewMock(t))
	s := m.Create()

	s.AddFlash("info", "Sign in successful!")
	s.AddFlash("gameplay", "Hit!")

	flashes := s.TakeFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, "info", flashes[0].Kind)
	assert.Equal(t, "Hit!", flashes[1].Text)

	assert.Empty(t, s.TakeFlashes(), "flashes clear once taken")
}

func TestSignOutClearsRound(t *testing.T) {
	t.Parallel()
	m := NewManager(time.Hour, quartz.NewMock(t))
	s := m.Create()

	s.Username = "admin"
	s.SignedIn = true
	s.Purse = 50
	s.Round = []byte(`{"phase":"bet"}`)
	require.True(t, s.InProgress())

	s.SignOut()
	assert.False(t, s.SignedIn)
	assert.Empty(t, s.Username)
	assert.Zero(t, s.Purse)
	assert.False(t, s.InProgress())
}

func TestDestroy(t *testing.T) {
	t.Parallel()
	m := NewManager(time.Hour, quartz.NewMock(t))
	s := m.Create()

	m.Destroy(s.ID)
	_, err := m.Get(s.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
