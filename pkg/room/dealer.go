package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"marias-server/internal/rng"
	"marias-server/pkg/deck"
	"marias-server/pkg/events"
	"marias-server/pkg/marias"
)

// ErrPlayerNotInGame is returned when a player who is not seated sends anything but a join
var ErrPlayerNotInGame = errors.New("player is not in the game")

// ErrDealerClosed is returned when dispatching to a dealer whose shift has ended
var ErrDealerClosed = errors.New("dealer is closed")

// ErrDealerCrashed is returned by a dealer whose reducer panicked
var ErrDealerCrashed = errors.New("dealer crashed")

// Dealer is responsible for a single game
// Every action is applied from the dealer's run loop, one at a time.
type Dealer struct {
	bus     *events.Bus
	gen     rng.Generator
	log     logrus.FieldLogger
	created time.Time

	// reducer is swapped out by tests
	reducer func(*marias.GameState, marias.Action) *marias.GameState

	lock        sync.RWMutex
	state       *marias.GameState
	logMessages []*LogMessage
	clients     map[*Client]bool
	crashed     bool

	execInRunLoop chan func()
	close         chan bool
	closeOnce     sync.Once
	startOnce     sync.Once
	started       bool
	stopped       chan struct{}
}

// NewDealer creates a new dealer for the game
// The initial state is published immediately. Call StartShift to start processing actions.
func NewDealer(state *marias.GameState, bus *events.Bus, gen rng.Generator) *Dealer {
	d := &Dealer{
		bus:           bus,
		gen:           gen,
		log:           logrus.WithField("gameID", state.GameID),
		created:       time.Now(),
		reducer:       marias.Reduce,
		state:         state,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		stopped:       make(chan struct{}),
	}

	bus.Publish(state)
	return d
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	d.startOnce.Do(func() {
		d.lock.Lock()
		d.started = true
		d.lock.Unlock()

		go d.runLoop()
	})
}

func (d *Dealer) runLoop() {
	defer close(d.stopped)

	d.log.Debug("creating dealer run loop")
	for {
		// a closed dealer runs nothing more, even with work queued
		select {
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		default:
		}

		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift stops the run loop
// It returns once an action already being applied has finished, so nothing is published afterwards.
// Pending and later dispatches fail with ErrDealerClosed. Must not be called from the run loop.
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})

	d.lock.RLock()
	started := d.started
	d.lock.RUnlock()

	if started {
		<-d.stopped
	}
}

// State returns the current state of the game
func (d *Dealer) State() *marias.GameState {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.state
}

type dispatchResult struct {
	state *marias.GameState
	err   error
}

// Dispatch applies the action to the game and returns the resulting state
// Dispatch gives up waiting when ctx is done. The action may still be applied in that case.
// A rejected action is not an error: the returned state carries the rejection in its Error field.
func (d *Dealer) Dispatch(ctx context.Context, action marias.Action) (*marias.GameState, error) {
	done := make(chan dispatchResult, 1)
	fn := func() {
		state, err := d.apply(action)
		done <- dispatchResult{state: state, err: err}
	}

	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
		return nil, ErrDealerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-done:
		return res.state, res.err
	case <-d.close:
		return nil, ErrDealerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DispatchSync applies the action and waits for the result
func (d *Dealer) DispatchSync(action marias.Action) (*marias.GameState, error) {
	return d.Dispatch(context.Background(), action)
}

// NOTE: must only be called from the run loop
func (d *Dealer) apply(action marias.Action) (*marias.GameState, error) {
	if d.crashed {
		return nil, ErrDealerCrashed
	}

	if action == nil {
		return nil, marias.ErrUnknownAction
	}

	current := d.State()
	if action.Type() != marias.ActionJoin {
		if _, ok := current.Players[action.Player()]; !ok {
			return nil, ErrPlayerNotInGame
		}
	}

	if deal, ok := action.(marias.DealCards); ok && len(deal.Deck) == 0 {
		deal.Deck = deck.NewShuffledPiquet(d.gen)
		action = deal
	}

	next, err := d.reduce(current, action)
	if err != nil {
		return nil, err
	}

	d.lock.Lock()
	d.state = next
	d.lock.Unlock()

	d.addLogMessages(newLogMessage(next, action))
	d.bus.Publish(next)

	log := d.log.WithFields(logrus.Fields{
		"version":  next.Version,
		"playerID": action.Player(),
		"action":   action.Type(),
	})

	if next.Error != "" {
		log.WithField("error", next.Error).Debug("action rejected")
	} else {
		log.Debug("action applied")
	}

	return next, nil
}

func (d *Dealer) reduce(s *marias.GameState, action marias.Action) (next *marias.GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.crashed = true
			d.log.WithField("panic", r).WithField("type", "exception").Error("reducer crashed")
			next, err = nil, fmt.Errorf("%w: %v", ErrDealerCrashed, r)
		}
	}()

	return d.reducer(s, action), nil
}

// AddClient records a connected client
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.clients[client] = true
}

// RemoveClient forgets a client
// lastClient is true if no other client is connected
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	delete(d.clients, client)
	return len(d.clients) == 0
}

// ConnectedPlayers returns the sorted ids of players with at least one connected client
func (d *Dealer) ConnectedPlayers() []string {
	d.lock.RLock()
	seen := make(map[string]bool)
	for client := range d.clients {
		if client.PlayerID != "" {
			seen[client.PlayerID] = true
		}
	}
	d.lock.RUnlock()

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}
