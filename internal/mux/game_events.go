package mux

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marias-server/pkg/marias"
)

var preferWait = regexp.MustCompile(`wait=(\d+)`)

// parseVersion parses an If-None-Match header
// v12, "v12", 12 and "12" are accepted.
func parseVersion(header string) (int64, bool) {
	cleaned := strings.TrimPrefix(strings.Trim(strings.TrimSpace(header), `"`), "v")
	if cleaned == "" {
		return 0, false
	}

	version, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}

	return version, true
}

// parseWait parses a Prefer header, capping the wait at max
func parseWait(header string, max time.Duration) time.Duration {
	match := preferWait.FindStringSubmatch(header)
	if match == nil {
		return 0
	}

	seconds, err := strconv.Atoi(match[1])
	if err != nil {
		return max
	}

	wait := time.Duration(seconds) * time.Second
	if wait > max {
		return max
	}

	return wait
}

func etag(version int64) string {
	return fmt.Sprintf("v%d", version)
}

// getGameEvents serves short and long polls for state changes
// A client that is up to date gets a 304, immediately or once the requested wait expires.
func (m *Mux) getGameEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		current, err := m.pitBoss.Get(id)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		playerID := r.FormValue("playerId")
		version, ok := parseVersion(r.Header.Get("If-None-Match"))
		if !ok || current.Version > version {
			writeState(w, current, playerID)
			return
		}

		wait := parseWait(r.Header.Get("Prefer"), m.settings.maxWait)
		if wait <= 0 {
			notModified(w, current.Version)
			return
		}

		next, err := m.pitBoss.WaitForChange(r.Context(), id, version, wait)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		if next == nil {
			notModified(w, current.Version)
			return
		}

		writeState(w, next, playerID)
	}
}

func writeState(w http.ResponseWriter, state *marias.GameState, playerID string) {
	w.Header().Set("ETag", etag(state.Version))
	writeJSON(w, http.StatusOK, marias.ViewFor(state, playerID))
}

func notModified(w http.ResponseWriter, version int64) {
	w.Header().Set("ETag", etag(version))
	w.WriteHeader(http.StatusNotModified)
}
