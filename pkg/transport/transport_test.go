package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marias-server/internal/mux"
	"marias-server/pkg/events"
	"marias-server/pkg/marias"
	"marias-server/pkg/room"
)

type recorder struct {
	mu     sync.Mutex
	states []State
	views  chan *marias.View
}

func newRecorder() *recorder {
	return &recorder{views: make(chan *marias.View, 64)}
}

func (r *recorder) onState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) onView(v *marias.View) {
	r.views <- v
}

func (r *recorder) seen(s State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, state := range r.states {
		if state == s {
			return true
		}
	}

	return false
}

func (r *recorder) waitForVersion(t *testing.T, version int64) *marias.View {
	t.Helper()

	timeout := time.After(time.Second * 5)
	for {
		select {
		case v := <-r.views:
			if v.Version == version {
				return v
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for version", "%d", version)
			return nil
		}
	}
}

// newServer serves a fresh pit boss, letting block turn away requests first
func newServer(t *testing.T, block func(r *http.Request) bool) (*httptest.Server, *room.PitBoss) {
	t.Helper()

	pitBoss := room.NewPitBoss(events.NewBus(0), marias.DefaultOptions())
	m := mux.NewMux("test", pitBoss)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if block != nil && block(r) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		m.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	return ts, pitBoss
}

func newTestClient(ts *httptest.Server, rec *recorder) *Client {
	return NewClient(Options{
		BaseURL:           ts.URL,
		LongPollWait:      time.Second,
		ShortPollInterval: time.Millisecond * 10,
		BaseDelay:         time.Millisecond,
		MaxDelay:          time.Millisecond * 5,
		MaxRetries:        2,
		OnState:           rec.onState,
		OnView:            rec.onView,
	})
}

func run(ctx context.Context, c *Client, gameID, playerID string) chan error {
	result := make(chan error, 1)
	go func() {
		result <- c.Run(ctx, gameID, playerID)
	}()

	return result
}

func waitForResult(t *testing.T, result chan error) error {
	t.Helper()

	select {
	case err := <-result:
		return err
	case <-time.After(time.Second * 5):
		require.FailNow(t, "Run did not return")
		return nil
	}
}

func followGame(t *testing.T, block func(r *http.Request) bool, expected State) {
	a := assert.New(t)
	ts, pitBoss := newServer(t, block)
	state, err := pitBoss.CreateGame(context.Background(), "p1", "Alice")
	require.NoError(t, err)

	rec := newRecorder()
	c := newTestClient(ts, rec)
	ctx, cancel := context.WithCancel(context.Background())
	result := run(ctx, c, state.GameID, "p1")

	view := rec.waitForVersion(t, 1)
	a.Equal("Alice", view.Players[0].Name)

	_, err = pitBoss.Submit(context.Background(), state.GameID, marias.JoinGame{PlayerID: "p2", PlayerName: "Bob"})
	require.NoError(t, err)

	view = rec.waitForVersion(t, 2)
	a.Len(view.Players, 2)
	a.True(rec.seen(expected), "expected state %s", expected)

	cancel()
	a.ErrorIs(waitForResult(t, result), context.Canceled)
	a.Equal(StateDisconnected, c.State())
}

func TestClient_Run_webSocket(t *testing.T) {
	followGame(t, nil, StateWebSocket)
}

func TestClient_Run_longPoll(t *testing.T) {
	followGame(t, func(r *http.Request) bool {
		return strings.HasSuffix(r.URL.Path, "/ws")
	}, StateLongPoll)
}

func TestClient_Run_shortPoll(t *testing.T) {
	followGame(t, func(r *http.Request) bool {
		return strings.HasSuffix(r.URL.Path, "/ws") || r.Header.Get("Prefer") != ""
	}, StateShortPoll)
}

func TestClient_Run_maxRetries(t *testing.T) {
	ts, _ := newServer(t, func(r *http.Request) bool {
		return true
	})

	rec := newRecorder()
	err := waitForResult(t, run(context.Background(), newTestClient(ts, rec), "game", "p1"))
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.True(t, rec.seen(StateReconnecting))
	assert.Contains(t, err.Error(), "unexpected status code 500")
}

func TestClient_Run_gameClosed(t *testing.T) {
	ts, pitBoss := newServer(t, nil)

	rec := newRecorder()
	err := waitForResult(t, run(context.Background(), newTestClient(ts, rec), "nope", "p1"))
	assert.ErrorIs(t, err, ErrGameClosed)

	state, err := pitBoss.CreateGame(context.Background(), "p1", "Alice")
	require.NoError(t, err)

	result := run(context.Background(), newTestClient(ts, rec), state.GameID, "p1")
	rec.waitForVersion(t, 1)
	require.NoError(t, pitBoss.Delete(state.GameID))
	assert.ErrorIs(t, waitForResult(t, result), ErrGameClosed)
}

func TestClient_backoff(t *testing.T) {
	c := NewClient(Options{
		BaseDelay: time.Second,
		MaxDelay:  time.Second * 10,
	})

	assert.Equal(t, time.Second, c.backoff(1))
	assert.Equal(t, time.Second*2, c.backoff(2))
	assert.Equal(t, time.Second*4, c.backoff(3))
	assert.Equal(t, time.Second*8, c.backoff(4))
	assert.Equal(t, time.Second*10, c.backoff(5))
	assert.Equal(t, time.Second*10, c.backoff(50))
}

func TestClient_deliver(t *testing.T) {
	rec := newRecorder()
	c := NewClient(Options{OnView: rec.onView})

	c.deliver(&marias.View{Version: 2})
	c.deliver(&marias.View{Version: 1})
	c.deliver(&marias.View{Version: 2})
	c.deliver(&marias.View{Version: 3})

	assert.Equal(t, int64(2), (<-rec.views).Version)
	assert.Equal(t, int64(3), (<-rec.views).Version)
	assert.Len(t, rec.views, 0)
}

func TestClient_Submit(t *testing.T) {
	a := assert.New(t)
	ts, pitBoss := newServer(t, nil)
	state, err := pitBoss.CreateGame(context.Background(), "p1", "Alice")
	require.NoError(t, err)

	rec := newRecorder()
	c := newTestClient(ts, rec)

	res, err := c.Submit(context.Background(), state.GameID, marias.JoinGame{PlayerID: "p2", PlayerName: "Bob"})
	require.NoError(t, err)
	a.True(res.Success)
	a.Equal(int64(2), res.State.Version)
	a.Equal(int64(2), (<-rec.views).Version)

	res, err = c.Submit(context.Background(), state.GameID, marias.StartGame{PlayerID: "p1"})
	require.NoError(t, err)
	a.False(res.Success)
	a.Equal(marias.ErrNeedThreePlayers.Error(), res.ErrorMessage)

	_, err = c.Submit(context.Background(), "nope", marias.StartGame{PlayerID: "p1"})
	var statusErr *StatusError
	if a.True(errors.As(err, &statusErr)) {
		a.Equal(http.StatusNotFound, statusErr.StatusCode)
		a.Equal("game not found", statusErr.Message)
	}
}
