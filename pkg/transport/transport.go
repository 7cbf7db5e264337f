// Package transport keeps a client in sync with a game
// It prefers the websocket push stream and falls back to long polling, then to short polling.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"marias-server/pkg/marias"
)

// ErrMaxRetries is returned by Run once every transport failed MaxRetries times in a row
var ErrMaxRetries = errors.New("maximum retries exceeded")

// ErrGameClosed is returned by Run when the game no longer exists
var ErrGameClosed = errors.New("game closed")

// State is the connection state of a client
type State string

// connection states
const (
	StateConnecting   State = "connecting"
	StateWebSocket    State = "connected-websocket"
	StateLongPoll     State = "connected-longpoll"
	StateShortPoll    State = "connected-shortpoll"
	StateReconnecting State = "reconnecting"
	StateDisconnected State = "disconnected"
)

const (
	defaultBaseDelay         = time.Second
	defaultMaxDelay          = time.Second * 30
	defaultMaxRetries        = 5
	defaultLongPollWait      = time.Second * 30
	defaultShortPollInterval = time.Second * 2
)

// StatusError is an unexpected HTTP response
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
}

// Options configures a Client
type Options struct {
	// BaseURL is the http(s) URL of the server
	BaseURL string

	HTTPClient *http.Client
	Dialer     *websocket.Dialer

	// LongPollWait is the wait asked of the server on each long poll
	LongPollWait      time.Duration
	ShortPollInterval time.Duration

	// BaseDelay and MaxDelay bound the exponential backoff between retries
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int

	// OnState is called on every connection state change
	OnState func(State)

	// OnView is called with every new state of the game
	OnView func(*marias.View)

	Logger logrus.FieldLogger
}

// Client keeps a player's view of a game current
type Client struct {
	opts Options

	mu       sync.Mutex
	state    State
	version  int64
	received bool
}

// NewClient returns a new client
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}

	if opts.LongPollWait <= 0 {
		opts.LongPollWait = defaultLongPollWait
	}

	if opts.ShortPollInterval <= 0 {
		opts.ShortPollInterval = defaultShortPollInterval
	}

	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}

	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}

	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &Client{
		opts:    opts,
		version: -1,
	}
}

// State returns the current connection state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()

	if changed && c.opts.OnState != nil {
		c.opts.OnState(state)
	}
}

// deliver passes on views newer than the last one seen
func (c *Client) deliver(view *marias.View) {
	c.mu.Lock()
	if view.Version <= c.version {
		c.mu.Unlock()
		return
	}

	c.version = view.Version
	c.received = true
	c.mu.Unlock()

	if c.opts.OnView != nil {
		c.opts.OnView(view)
	}
}

func (c *Client) lastVersion() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// backoff returns the delay before retry attempt n, starting at 1
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.opts.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.opts.MaxDelay {
			return c.opts.MaxDelay
		}
	}

	if delay > c.opts.MaxDelay {
		return c.opts.MaxDelay
	}

	return delay
}

// Run follows the game until ctx is done, the game closes, or every transport keeps failing
func (c *Client) Run(ctx context.Context, gameID, playerID string) error {
	log := c.opts.Logger.WithFields(logrus.Fields{
		"gameID":   gameID,
		"playerID": playerID,
	})

	defer c.setState(StateDisconnected)
	c.setState(StateConnecting)

	attempt := 0
	for {
		c.mu.Lock()
		c.received = false
		c.mu.Unlock()

		err := c.runChain(ctx, log, gameID, playerID)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if errors.Is(err, ErrGameClosed) {
			return err
		}

		c.mu.Lock()
		progressed := c.received
		c.mu.Unlock()

		if progressed {
			attempt = 0
		}

		attempt++
		if attempt > c.opts.MaxRetries {
			log.WithError(err).Error("giving up")
			return fmt.Errorf("%w: %v", ErrMaxRetries, err)
		}

		delay := c.backoff(attempt)
		log.WithError(err).WithField("delay", delay).Warn("all transports failed, retrying")
		c.setState(StateReconnecting)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

func (c *Client) runChain(ctx context.Context, log logrus.FieldLogger, gameID, playerID string) error {
	err := c.runWebSocket(ctx, gameID, playerID)
	if ctx.Err() != nil || errors.Is(err, ErrGameClosed) {
		return err
	}

	log.WithError(err).Debug("websocket failed, falling back to long polling")
	err = c.runPoll(ctx, gameID, playerID, true)
	if ctx.Err() != nil || errors.Is(err, ErrGameClosed) {
		return err
	}

	log.WithError(err).Debug("long polling failed, falling back to short polling")
	return c.runPoll(ctx, gameID, playerID, false)
}

func (c *Client) gameURL(gameID string) string {
	return c.opts.BaseURL + "/games/" + url.PathEscape(gameID)
}

type pushMessage struct {
	Key   string          `json:"key"`
	Value string          `json:"value"`
	Data  json.RawMessage `json:"data"`
}

// runWebSocket reads the push stream until it fails
func (c *Client) runWebSocket(ctx context.Context, gameID, playerID string) error {
	wsURL := "ws" + strings.TrimPrefix(c.gameURL(gameID), "http") + "/ws?playerId=" + url.QueryEscape(playerID)
	conn, resp, err := c.opts.Dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return ErrGameClosed
		}

		return err
	}
	defer conn.Close()

	c.setState(StateWebSocket)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var msg pushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return ErrGameClosed
			}

			return err
		}

		if msg.Key != "gameState" {
			continue
		}

		var view marias.View
		if err := json.Unmarshal(msg.Data, &view); err != nil {
			return err
		}

		c.deliver(&view)
	}
}

// runPoll polls the events endpoint until a request fails
func (c *Client) runPoll(ctx context.Context, gameID, playerID string, long bool) error {
	if long {
		c.setState(StateLongPoll)
	} else {
		c.setState(StateShortPoll)
	}

	for {
		if err := c.poll(ctx, gameID, playerID, long); err != nil {
			return err
		}

		if long {
			continue
		}

		timer := time.NewTimer(c.opts.ShortPollInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

func (c *Client) poll(ctx context.Context, gameID, playerID string, long bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gameURL(gameID)+"/events?playerId="+url.QueryEscape(playerID), nil)
	if err != nil {
		return err
	}

	if version := c.lastVersion(); version >= 0 {
		req.Header.Set("If-None-Match", fmt.Sprintf("v%d", version))
	}

	if long {
		req.Header.Set("Prefer", fmt.Sprintf("wait=%d", int(c.opts.LongPollWait/time.Second)))
	}

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var view marias.View
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			return err
		}

		c.deliver(&view)
		return nil
	case http.StatusNotModified:
		return nil
	case http.StatusNotFound:
		return ErrGameClosed
	default:
		return statusError(resp)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func statusError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &StatusError{StatusCode: resp.StatusCode, Message: body.Message}
}

// ActionResult is the outcome of a submitted action
type ActionResult struct {
	Success      bool         `json:"success"`
	State        *marias.View `json:"state"`
	ErrorMessage string       `json:"errorMessage"`
}

// Submit posts an action to the game
// A rejected action is not an error: check ActionResult.Success.
func (c *Client) Submit(ctx context.Context, gameID string, action marias.Action) (*ActionResult, error) {
	data, err := marias.EncodeAction(action)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(struct {
		Action json.RawMessage `json:"action"`
	}{Action: data})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gameURL(gameID)+"/actions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.State != nil {
		c.deliver(result.State)
	}

	return &result, nil
}
