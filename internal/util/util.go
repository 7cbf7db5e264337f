package util

import (
	"github.com/google/uuid"
)

// RandomPlayerID generates an id for a player who did not bring one
func RandomPlayerID() string {
	return "player-" + uuid.New().String()
}
