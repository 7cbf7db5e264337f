package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"marias-server/pkg/events"
	"marias-server/pkg/marias"
)

// ErrWrongPlayer is returned when a client sends an action on behalf of another player
var ErrWrongPlayer = errors.New("action is for a different player")

// Client is a client connected to a game over a push stream
// An empty PlayerID is a spectator.
type Client struct {
	PlayerID string

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close receives the reason when the server ends the stream
	Close chan string

	gameID    string
	pitBoss   *PitBoss
	sub       *events.Subscription
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(pitBoss *PitBoss, gameID, playerID string, sub *events.Subscription) *Client {
	return &Client{
		PlayerID: playerID,
		send:     make(chan interface{}, 16),
		Close:    make(chan string, 1),
		gameID:   gameID,
		pitBoss:  pitBoss,
		sub:      sub,
		done:     make(chan struct{}),
	}
}

// Send sends a message to the client
// Send does not block. False is returned if the client's buffer is full.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and game
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.PlayerID, c.gameID)
}

// forward pushes the client's view of every published state until the client disconnects
func (c *Client) forward() {
	for {
		select {
		case state, ok := <-c.sub.States():
			if !ok {
				c.closeWith("game closed")
				return
			}

			select {
			case c.send <- newStateResponse(marias.ViewFor(state, c.PlayerID)):
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) closeWith(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

func (c *Client) disconnect() bool {
	first := false
	c.closeOnce.Do(func() {
		close(c.done)
		c.sub.Close()
		first = true
	})

	return first
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(ctx context.Context, msg *PayloadIn) {
	action, err := marias.DecodeAction(msg.Action)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if action.Player() != c.PlayerID {
		c.Send(newErrorResponse(msg.Context, ErrWrongPlayer))
		return
	}

	state, err := c.pitBoss.Submit(ctx, c.gameID, action)
	if err != nil {
		logrus.WithError(err).WithField("client", c.String()).Error("could not perform action")
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if state.Error != "" {
		c.Send(&Response{Key: "error", Value: state.Error, Context: msg.Context})
		return
	}

	c.Send(OK(msg.Context))
}
