package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marias-server/internal/util"
	"marias-server/pkg/marias"
)

func TestInstance(t *testing.T) {
	defer util.SetEnv("MARIAS_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("MARIAS_EVENTS_SUBSCRIBER_BUFFER", "32")()

	a := assert.New(t)
	config = Config{}
	cfg := Instance()
	a.Equal("debug", cfg.Log.Level)
	a.Equal("json", cfg.Log.Format)
	a.Equal(10, cfg.Events.MaxWaitSeconds)
	a.Equal(32, cfg.Events.SubscriberBuffer)
	a.Equal(5, cfg.Game.PreviewCards)
	a.True(cfg.Game.TwoPhaseDeal)
	a.False(cfg.Game.ScoreMarriages)

	opts, err := cfg.GameOptions()
	a.NoError(err)
	a.Equal([]marias.Contract{marias.ContractGame, marias.ContractSeven, marias.ContractMisere}, opts.Ladder)
	a.Equal(5, opts.PreviewCards)
	a.Equal(20, opts.MarriagePoints)

	// ensure that it's only loaded once
	defer util.SetEnv("MARIAS_EVENTS_SUBSCRIBER_BUFFER", "64")()
	// ensure we aren't using a pointer
	cfg.Events.SubscriberBuffer = 1
	cfg = Instance()
	a.Equal(32, cfg.Events.SubscriberBuffer)
}

func TestDefaults(t *testing.T) {
	defer util.SetEnv("MARIAS_CONFIG_FILE", "testdata/missing.yaml")()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, DefaultConfig(), withoutLoaded(cfg))

	opts, err := cfg.GameOptions()
	assert.NoError(t, err)
	assert.Equal(t, marias.DefaultOptions(), opts)
}

func TestLoad_invalid(t *testing.T) {
	defer util.SetEnv("MARIAS_CONFIG_FILE", "testdata/missing.yaml")()
	defer util.SetEnv("MARIAS_GAME_PREVIEW_CARDS", "11")()
	assert.EqualError(t, Load(), "game.previewCards must be between 1 and 10")

	defer util.SetEnv("MARIAS_GAME_PREVIEW_CARDS", "7")()
	defer util.SetEnv("MARIAS_GAME_LADDER", "GAME,BETL")()
	assert.EqualError(t, Load(), "game.ladder: unknown contract: BETL")

	defer util.SetEnv("MARIAS_EVENTS_MAX_WAIT_SECONDS", "soon")()
	assert.Error(t, Load())
}

func withoutLoaded(c Config) Config {
	c.loaded = false
	return c
}
