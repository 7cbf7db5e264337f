package mux

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marias-server/pkg/marias"
)

func Test_parseVersion(t *testing.T) {
	for header, expected := range map[string]int64{
		"v12":   12,
		`"v12"`: 12,
		"12":    12,
		` "7" `: 7,
		"v0":    0,
	} {
		version, ok := parseVersion(header)
		assert.True(t, ok, header)
		assert.Equal(t, expected, version, header)
	}

	for _, header := range []string{"", "v", "vx", `"abc"`, "*"} {
		_, ok := parseVersion(header)
		assert.False(t, ok, header)
	}
}

func Test_parseWait(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseWait("", time.Minute))
	assert.Equal(t, time.Duration(0), parseWait("respond-async", time.Minute))
	assert.Equal(t, 5*time.Second, parseWait("wait=5", time.Minute))
	assert.Equal(t, 5*time.Second, parseWait("respond-async, wait=5", time.Minute))
	assert.Equal(t, 30*time.Second, parseWait("wait=100", 30*time.Second))
}

func Test_getGameEvents(t *testing.T) {
	a := assert.New(t)
	ts, m := newTestServer(t)
	gameID := createGame(t, ts)
	path := "/games/" + gameID + "/events?playerId=p1"

	var view marias.View
	resp := assertGetWithResp(t, ts, path, &view, http.StatusOK)
	a.Equal("v1", resp.Header.Get("ETag"))
	a.Equal("no-store", resp.Header.Get("Cache-Control"))
	a.Equal(int64(1), view.Version)

	resp = assertGetWithResp(t, ts, path, &view, http.StatusOK, "If-None-Match", `"v0"`)
	a.Equal("v1", resp.Header.Get("ETag"))

	// up to date, short poll
	resp = assertGetWithResp(t, ts, path, nil, http.StatusNotModified, "If-None-Match", "v1")
	a.Equal("v1", resp.Header.Get("ETag"))

	// long poll woken by an action
	go func() {
		time.Sleep(50 * time.Millisecond)
		postAction(t, ts, gameID, marias.JoinGame{PlayerID: "p2", PlayerName: "Bob"}, 200)
	}()

	resp = assertGetWithResp(t, ts, path, &view, http.StatusOK, "If-None-Match", "v1", "Prefer", "wait=10")
	a.Equal("v2", resp.Header.Get("ETag"))
	a.Equal(int64(2), view.Version)
	a.Len(view.Players, 2)

	// the wait is capped
	m.settings.maxWait = 50 * time.Millisecond
	start := time.Now()
	resp = assertGetWithResp(t, ts, path, nil, http.StatusNotModified, "If-None-Match", "v2", "Prefer", "wait=30")
	a.Equal("v2", resp.Header.Get("ETag"))
	a.Less(time.Since(start), 10*time.Second)

	assertGet(t, ts, "/games/nope/events", nil, http.StatusNotFound)
}

func Test_getGameEvents_deleted(t *testing.T) {
	ts, _ := newTestServer(t)
	gameID := createGame(t, ts)

	go func() {
		time.Sleep(50 * time.Millisecond)
		assertDelete(t, ts, "/games/"+gameID, http.StatusNoContent)
	}()

	assertGetWithResp(t, ts, "/games/"+gameID+"/events", nil, http.StatusNotFound, "If-None-Match", "v1", "Prefer", "wait=10")
}
