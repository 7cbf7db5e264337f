package room

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"marias-server/internal/rng"
	"marias-server/pkg/events"
	"marias-server/pkg/marias"
)

// ErrGameNotFound is returned for an unknown game id
var ErrGameNotFound = errors.New("game not found")

// PitBoss is responsible for dispatching players to games
type PitBoss struct {
	bus     *events.Bus
	options marias.Options

	// newGenerator returns the shuffler of a new game
	newGenerator func() rng.Generator

	lock    sync.RWMutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new registry whose games use opts
func NewPitBoss(bus *events.Bus, opts marias.Options) *PitBoss {
	return &PitBoss{
		bus:          bus,
		options:      opts,
		newGenerator: func() rng.Generator { return rng.Crypto{} },
		dealers:      make(map[string]*Dealer),
	}
}

// Summary describes a game in a listing
type Summary struct {
	GameID           string       `json:"gameId"`
	Version          int64        `json:"version"`
	Phase            marias.Phase `json:"phase"`
	Players          []string     `json:"players"`
	ConnectedPlayers []string     `json:"connectedPlayers"`
	RoundNumber      int          `json:"roundNumber"`
	Created          time.Time    `json:"created"`
}

// CreateGame starts a new game and seats its creator
func (p *PitBoss) CreateGame(ctx context.Context, creatorID, creatorName string) (*marias.GameState, error) {
	state := marias.NewGame(uuid.New().String(), p.options)
	join := marias.JoinGame{PlayerID: creatorID, PlayerName: creatorName}
	if err := marias.Validate(state, join); err != nil {
		return nil, err
	}

	dealer := NewDealer(state, p.bus, p.newGenerator())
	dealer.StartShift()

	p.lock.Lock()
	p.dealers[state.GameID] = dealer
	p.lock.Unlock()

	logrus.WithField("gameID", state.GameID).WithField("creator", creatorID).Info("game created")

	next, err := dealer.Dispatch(ctx, join)
	if err != nil {
		_ = p.Delete(state.GameID)
		return nil, err
	}

	return next, nil
}

func (p *PitBoss) dealer(gameID string) (*Dealer, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, ok := p.dealers[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}

	return dealer, nil
}

// Get returns the current state of a game
func (p *PitBoss) Get(gameID string) (*marias.GameState, error) {
	dealer, err := p.dealer(gameID)
	if err != nil {
		return nil, err
	}

	return dealer.State(), nil
}

// List returns a summary of every game, oldest first
func (p *PitBoss) List() []Summary {
	p.lock.RLock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		dealers = append(dealers, dealer)
	}
	p.lock.RUnlock()

	sort.Slice(dealers, func(i, j int) bool {
		if dealers[i].created.Equal(dealers[j].created) {
			return dealers[i].State().GameID < dealers[j].State().GameID
		}

		return dealers[i].created.Before(dealers[j].created)
	})

	summaries := make([]Summary, 0, len(dealers))
	for _, dealer := range dealers {
		state := dealer.State()
		summaries = append(summaries, Summary{
			GameID:           state.GameID,
			Version:          state.Version,
			Phase:            state.Phase,
			Players:          append([]string{}, state.PlayerOrder...),
			ConnectedPlayers: dealer.ConnectedPlayers(),
			RoundNumber:      state.RoundNumber,
			Created:          dealer.created,
		})
	}

	return summaries
}

// Submit applies an action to a game
func (p *PitBoss) Submit(ctx context.Context, gameID string, action marias.Action) (*marias.GameState, error) {
	dealer, err := p.dealer(gameID)
	if err != nil {
		return nil, err
	}

	return dealer.Dispatch(ctx, action)
}

// Log returns the most recent actions applied to a game
func (p *PitBoss) Log(gameID string) ([]*LogMessage, error) {
	dealer, err := p.dealer(gameID)
	if err != nil {
		return nil, err
	}

	return dealer.LogMessages(), nil
}

// Delete ends a game
// Connected clients are closed and pending waits return. An action in flight finishes before the game's
// events are cleaned up.
func (p *PitBoss) Delete(gameID string) error {
	p.lock.Lock()
	dealer, ok := p.dealers[gameID]
	delete(p.dealers, gameID)
	p.lock.Unlock()

	if !ok {
		return ErrGameNotFound
	}

	dealer.EndShift()
	p.bus.Cleanup(gameID)
	logrus.WithField("gameID", gameID).Info("game deleted")
	return nil
}

// Subscribe returns a live stream of a game's states
func (p *PitBoss) Subscribe(gameID string) (*events.Subscription, error) {
	if _, err := p.dealer(gameID); err != nil {
		return nil, err
	}

	return p.bus.Subscribe(gameID)
}

// WaitForChange waits for a state newer than version
// A nil state and error means the timeout expired.
func (p *PitBoss) WaitForChange(ctx context.Context, gameID string, version int64, timeout time.Duration) (*marias.GameState, error) {
	if _, err := p.dealer(gameID); err != nil {
		return nil, err
	}

	state, err := p.bus.WaitForChange(ctx, gameID, version, timeout)
	if errors.Is(err, events.ErrClosed) || errors.Is(err, events.ErrUnknownGame) {
		return nil, ErrGameNotFound
	}

	return state, err
}

// ClientConnected is called when a client opens a push stream to a game
// The client immediately receives its view of the current state.
func (p *PitBoss) ClientConnected(gameID, playerID string) (*Client, error) {
	dealer, err := p.dealer(gameID)
	if err != nil {
		return nil, err
	}

	sub, err := p.bus.Subscribe(gameID)
	if err != nil {
		return nil, ErrGameNotFound
	}

	client := newClient(p, gameID, playerID, sub)
	dealer.AddClient(client)
	go client.forward()

	logrus.WithField("client", client.String()).Debug("client connected")
	return client, nil
}

// ClientDisconnected is called when a client's push stream ends
func (p *PitBoss) ClientDisconnected(client *Client) {
	if !client.disconnect() {
		return
	}

	logrus.WithField("client", client.String()).Debug("client disconnected")
	if dealer, err := p.dealer(client.gameID); err == nil {
		dealer.RemoveClient(client)
	}
}
