package app

import (
	"errors"
	"fmt"

	"github.com/vk/ridgegrow/internal/growth"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero engine fields mean "use the value from the scene file".
type Config struct {
	ScenePath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	Workers   int
	Strategy  string
	Lookahead int

	OutputPath string // "" or "-" writes to the app output
	UploadURL  string // pre-signed PUT URL, optional

	PublishURL       string
	PublishNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenePath == "" {
		return nil, errors.New("ScenePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Lookahead < 0 {
		return nil, fmt.Errorf("lookahead must not be negative, got %d", cfg.Lookahead)
	}
	switch growth.Kind(cfg.Strategy) {
	case "", growth.KindHillClimb, growth.KindMedialAxis, growth.KindPlanAPlanB:
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
	return &cfg, nil
}
