package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"marias-server/pkg/marias"
)

// ErrUnknownGame is returned when waiting on or subscribing to a game that was never published
var ErrUnknownGame = errors.New("no events for game")

// ErrClosed is returned when the game's register was cleaned up while waiting
var ErrClosed = errors.New("game events closed")

// DefaultBuffer is the subscription buffer size used when none is configured
const DefaultBuffer = 8

// Bus distributes the latest state of each game to pollers and subscribers
// Publishing never blocks. A slow subscriber may miss intermediate states but always receives the latest one.
type Bus struct {
	buffer int

	mu        sync.Mutex
	registers map[string]*register
}

// register is the broadcast point of a single game
type register struct {
	mu      sync.Mutex
	latest  *marias.GameState
	changed chan struct{}
	subs    map[*Subscription]struct{}
	closed  bool
}

// NewBus returns a bus whose subscriptions buffer up to buffer states
func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	return &Bus{
		buffer:    buffer,
		registers: make(map[string]*register),
	}
}

func (b *Bus) registerFor(gameID string, create bool) *register {
	b.mu.Lock()
	defer b.mu.Unlock()

	reg, ok := b.registers[gameID]
	if !ok && create {
		reg = &register{
			changed: make(chan struct{}),
			subs:    make(map[*Subscription]struct{}),
		}

		b.registers[gameID] = reg
	}

	return reg
}

// Publish records the state as the latest state of its game
// States older than the latest one are ignored.
func (b *Bus) Publish(state *marias.GameState) {
	reg := b.registerFor(state.GameID, true)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closed {
		return
	}

	if reg.latest != nil && state.Version <= reg.latest.Version {
		logrus.WithFields(logrus.Fields{
			"gameID":  state.GameID,
			"version": state.Version,
			"latest":  reg.latest.Version,
		}).Warn("ignoring stale state")
		return
	}

	reg.latest = state
	close(reg.changed)
	reg.changed = make(chan struct{})

	for sub := range reg.subs {
		sub.offer(state)
	}
}

// Latest returns the most recently published state of the game
func (b *Bus) Latest(gameID string) (*marias.GameState, bool) {
	reg := b.registerFor(gameID, false)
	if reg == nil {
		return nil, false
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.latest, reg.latest != nil
}

// WaitForChange returns the first state with a version greater than version
// If the latest state is already newer it is returned immediately. Otherwise WaitForChange blocks until a newer
// state is published, the timeout expires, or ctx is done. A timeout returns nil, nil.
func (b *Bus) WaitForChange(ctx context.Context, gameID string, version int64, timeout time.Duration) (*marias.GameState, error) {
	reg := b.registerFor(gameID, false)
	if reg == nil {
		return nil, ErrUnknownGame
	}

	latest, changed, closed := reg.snapshot()
	if latest != nil && latest.Version > version {
		return latest, nil
	}

	if closed {
		return nil, ErrClosed
	}

	if timeout <= 0 {
		return nil, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-changed:
			latest, changed, closed = reg.snapshot()
			if latest != nil && latest.Version > version {
				return latest, nil
			}

			if closed {
				return nil, ErrClosed
			}
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *register) snapshot() (*marias.GameState, <-chan struct{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.latest, r.changed, r.closed
}

// Subscribe returns a subscription that immediately receives the latest state and then every published state
func (b *Bus) Subscribe(gameID string) (*Subscription, error) {
	reg := b.registerFor(gameID, false)
	if reg == nil {
		return nil, ErrUnknownGame
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.closed {
		return nil, ErrClosed
	}

	sub := &Subscription{
		ch:  make(chan *marias.GameState, b.buffer),
		reg: reg,
	}

	if reg.latest != nil {
		sub.offer(reg.latest)
	}

	reg.subs[sub] = struct{}{}
	return sub, nil
}

// Cleanup releases the game's register
// Subscriptions are closed and waiters return ErrClosed.
func (b *Bus) Cleanup(gameID string) {
	b.mu.Lock()
	reg, ok := b.registers[gameID]
	delete(b.registers, gameID)
	b.mu.Unlock()

	if !ok {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.closed = true
	close(reg.changed)
	for sub := range reg.subs {
		close(sub.ch)
		delete(reg.subs, sub)
	}

	logrus.WithField("gameID", gameID).Debug("cleaned up game events")
}

// Len returns the number of games with a register
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.registers)
}

// Subscription is a live stream of a game's states
type Subscription struct {
	ch  chan *marias.GameState
	reg *register
}

// States returns the channel states are delivered on
// The channel is closed when the subscription or the game's register is closed.
func (s *Subscription) States() <-chan *marias.GameState {
	return s.ch
}

// Close stops the subscription
func (s *Subscription) Close() {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.subs[s]; ok {
		delete(s.reg.subs, s)
		close(s.ch)
	}
}

// offer delivers the state, dropping the oldest buffered state when the buffer is full
// The register lock must be held.
func (s *Subscription) offer(state *marias.GameState) {
	for {
		select {
		case s.ch <- state:
			return
		default:
		}

		select {
		case <-s.ch:
		default:
		}
	}
}
