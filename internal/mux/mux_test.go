package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gmux "github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"marias-server/internal/config"
)

func TestNewMux(t *testing.T) {
	_, m := newTestServer(t)
	assert.Equal(t, "v1.2.3", m.version)
	assert.Equal(t, time.Duration(config.Instance().Events.MaxWaitSeconds)*time.Second, m.settings.maxWait)
}

func Test_gameMiddleware(t *testing.T) {
	a := assert.New(t)
	ts, m := newTestServer(t)
	id := createGame(t, ts)

	var seen string
	r := gmux.NewRouter()
	sub := r.PathPrefix("/games/{id}").Subrouter()
	sub.Use(m.gameMiddleware)
	sub.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = gameID(r)
		writeJSON(w, http.StatusOK, "OK")
	})

	test := httptest.NewServer(r)
	defer test.Close()

	var str string
	assertGet(t, test, "/games/"+id+"/test", &str, 200)
	a.Equal("OK", str)
	a.Equal(id, seen)

	var errObj errorResponse
	assertGet(t, test, "/games/nope/test", &errObj, 404)
	a.Equal("game not found", errObj.Message)
}

func TestMux_unknownRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	assertGet(t, ts, "/nope", nil, 404)
	assertPost(t, ts, "/health", "{}", nil, 405)
}
