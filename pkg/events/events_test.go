package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marias-server/pkg/marias"
)

func state(gameID string, version int64) *marias.GameState {
	s := marias.NewGame(gameID, marias.DefaultOptions())
	s.Version = version
	return s
}

func TestBus_Publish(t *testing.T) {
	a := assert.New(t)
	b := NewBus(0)

	_, ok := b.Latest("game-1")
	a.False(ok)

	b.Publish(state("game-1", 0))
	b.Publish(state("game-1", 1))
	b.Publish(state("game-2", 0))

	latest, ok := b.Latest("game-1")
	a.True(ok)
	a.Equal(int64(1), latest.Version)
	a.Equal(2, b.Len())

	// stale states are ignored
	b.Publish(state("game-1", 1))
	b.Publish(state("game-1", 0))
	latest, _ = b.Latest("game-1")
	a.Equal(int64(1), latest.Version)
}

func TestBus_WaitForChange(t *testing.T) {
	a := assert.New(t)
	b := NewBus(0)
	ctx := context.Background()

	_, err := b.WaitForChange(ctx, "game-1", 0, time.Millisecond)
	a.Equal(ErrUnknownGame, err)

	b.Publish(state("game-1", 3))

	// already newer
	s, err := b.WaitForChange(ctx, "game-1", 2, time.Hour)
	a.NoError(err)
	a.Equal(int64(3), s.Version)

	// timeout
	start := time.Now()
	s, err = b.WaitForChange(ctx, "game-1", 3, 20*time.Millisecond)
	a.NoError(err)
	a.Nil(s)
	a.GreaterOrEqual(time.Since(start), 20*time.Millisecond)

	// woken by a publish
	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Publish(state("game-1", 4))
	}()

	s, err = b.WaitForChange(ctx, "game-1", 3, 5*time.Second)
	a.NoError(err)
	if a.NotNil(s) {
		a.Equal(int64(4), s.Version)
	}

	// context cancelled
	cctx, cancel := context.WithCancel(ctx)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	s, err = b.WaitForChange(cctx, "game-1", 4, 5*time.Second)
	a.Equal(context.Canceled, err)
	a.Nil(s)
}

func TestBus_WaitForChange_cleanup(t *testing.T) {
	b := NewBus(0)
	b.Publish(state("game-1", 0))

	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Cleanup("game-1")
	}()

	s, err := b.WaitForChange(context.Background(), "game-1", 0, 5*time.Second)
	assert.Equal(t, ErrClosed, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, b.Len())
}

func TestBus_Subscribe(t *testing.T) {
	a := assert.New(t)
	b := NewBus(4)

	_, err := b.Subscribe("game-1")
	a.Equal(ErrUnknownGame, err)

	b.Publish(state("game-1", 1))
	sub, err := b.Subscribe("game-1")
	require.NoError(t, err)

	s := <-sub.States()
	a.Equal(int64(1), s.Version)

	b.Publish(state("game-1", 2))
	s = <-sub.States()
	a.Equal(int64(2), s.Version)

	sub.Close()
	_, ok := <-sub.States()
	a.False(ok)

	// closing twice is fine and later publishes do not panic
	sub.Close()
	b.Publish(state("game-1", 3))
}

func TestBus_Subscribe_dropsOldest(t *testing.T) {
	a := assert.New(t)
	b := NewBus(2)

	b.Publish(state("game-1", 0))
	sub, err := b.Subscribe("game-1")
	require.NoError(t, err)

	for v := int64(1); v <= 10; v++ {
		b.Publish(state("game-1", v))
	}

	a.Equal(int64(9), (<-sub.States()).Version)
	a.Equal(int64(10), (<-sub.States()).Version)

	select {
	case s := <-sub.States():
		a.Fail("unexpected state", "version %d", s.Version)
	default:
	}
}

func TestBus_Cleanup(t *testing.T) {
	a := assert.New(t)
	b := NewBus(0)
	b.Publish(state("game-1", 0))

	sub, err := b.Subscribe("game-1")
	require.NoError(t, err)
	<-sub.States()

	b.Cleanup("game-1")
	_, ok := <-sub.States()
	a.False(ok)

	_, ok = b.Latest("game-1")
	a.False(ok)

	// a closed subscription can still be closed
	sub.Close()
	b.Cleanup("game-1")
}
