package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"marias-server/internal/util"
	"marias-server/pkg/marias"
)

// Config provides configuration for the Mariáš server
type Config struct {
	loaded bool
	Log    struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Events struct {
		// MaxWaitSeconds caps the wait a long poll may ask for
		MaxWaitSeconds   int `yaml:"maxWaitSeconds" envconfig:"max_wait_seconds"`
		SubscriberBuffer int `yaml:"subscriberBuffer" envconfig:"subscriber_buffer"`
	} `yaml:"events"`
	Game struct {
		TwoPhaseDeal   bool     `yaml:"twoPhaseDeal" envconfig:"two_phase_deal"`
		PreviewCards   int      `yaml:"previewCards" envconfig:"preview_cards"`
		MarriagePoints int      `yaml:"marriagePoints" envconfig:"marriage_points"`
		ScoreMarriages bool     `yaml:"scoreMarriages" envconfig:"score_marriages"`
		Ladder         []string `yaml:"ladder"`
	} `yaml:"game"`
}

var config Config

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	opts := marias.DefaultOptions()

	var c Config
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Events.MaxWaitSeconds = 30
	c.Events.SubscriberBuffer = 8
	c.Game.TwoPhaseDeal = opts.TwoPhaseDeal
	c.Game.PreviewCards = opts.PreviewCards
	c.Game.MarriagePoints = opts.MarriagePoints
	c.Game.ScoreMarriages = opts.ScoreMarriages
	for _, contract := range opts.Ladder {
		c.Game.Ladder = append(c.Game.Ladder, string(contract))
	}

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The YAML file named by MARIAS_CONFIG_FILE is optional. Environment variables prefixed with MARIAS_ take precedence.
func Load() error {
	c := DefaultConfig()

	configFile := util.Getenv("MARIAS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&c); err != nil {
			return fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("marias", &c); err != nil {
		return err
	}

	if _, err := c.GameOptions(); err != nil {
		return err
	}

	c.loaded = true
	config = c
	return nil
}

// GameOptions returns the rule options for new games
func (c Config) GameOptions() (marias.Options, error) {
	opts := marias.DefaultOptions()
	opts.TwoPhaseDeal = c.Game.TwoPhaseDeal
	opts.MarriagePoints = c.Game.MarriagePoints
	opts.ScoreMarriages = c.Game.ScoreMarriages

	if c.Game.PreviewCards != 0 {
		if c.Game.PreviewCards < 1 || c.Game.PreviewCards > marias.HandSize {
			return marias.Options{}, fmt.Errorf("game.previewCards must be between 1 and %d", marias.HandSize)
		}

		opts.PreviewCards = c.Game.PreviewCards
	}

	if len(c.Game.Ladder) > 0 {
		ladder := make([]marias.Contract, 0, len(c.Game.Ladder))
		for _, name := range c.Game.Ladder {
			contract := marias.Contract(name)
			if _, ok := opts.Contracts[contract]; !ok {
				return marias.Options{}, fmt.Errorf("game.ladder: %w: %s", marias.ErrUnknownContract, name)
			}

			ladder = append(ladder, contract)
		}

		opts.Ladder = ladder
	}

	return opts, nil
}
