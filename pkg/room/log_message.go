package room

import (
	"time"

	"github.com/google/uuid"

	"marias-server/pkg/marias"
)

const logMessageLimit = 25

// LogMessage records one action applied by a dealer
type LogMessage struct {
	UUID     string            `json:"uuid"`
	Version  int64             `json:"version"`
	PlayerID string            `json:"playerId"`
	Action   marias.ActionType `json:"action"`
	Error    string            `json:"error,omitempty"`
	Time     time.Time         `json:"time"`
}

func newLogMessage(next *marias.GameState, action marias.Action) *LogMessage {
	return &LogMessage{
		UUID:     uuid.New().String(),
		Version:  next.Version,
		PlayerID: action.Player(),
		Action:   action.Type(),
		Error:    next.Error,
		Time:     time.Now(),
	}
}

// addLogMessages adds log messages, keeping the most recent
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages ...*LogMessage) {
	d.lock.Lock()
	defer d.lock.Unlock()

	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = append([]*LogMessage{}, m[count-logMessageLimit:]...)
	}

	d.logMessages = m
}

// LogMessages returns a copy of the most recent log messages, oldest first
func (d *Dealer) LogMessages() []*LogMessage {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return append([]*LogMessage{}, d.logMessages...)
}
