package grower

import (
	"fmt"
	"time"

	"github.com/vk/ridgegrow/internal/executor"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/taskbuilder"
)

// Config holds the engine parameters.
type Config struct {
	Strategy    growth.Kind
	Lookahead   int
	Uncertainty float64
	MaxLength   int

	Workers       int
	QueueCapacity int
	PollTimeout   time.Duration

	LakeSeeds int
}

// DefaultConfig returns the parameters used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Strategy:    growth.KindPlanAPlanB,
		Lookahead:   growth.DefaultLookahead,
		Uncertainty: 0,
		MaxLength:   growth.DefaultMaxLength,
		Workers:     4,
		PollTimeout: executor.DefaultPollTimeout,
		LakeSeeds:   taskbuilder.DefaultLakeSeeds,
	}
}

// Validate rejects parameters the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Lookahead < 1:
		return fmt.Errorf("lookahead must be at least 1, got %d", c.Lookahead)
	case c.Uncertainty < 0:
		return fmt.Errorf("uncertainty must not be negative, got %g", c.Uncertainty)
	case c.MaxLength < 2:
		return fmt.Errorf("max_length must be at least 2, got %d", c.MaxLength)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.QueueCapacity < 0:
		return fmt.Errorf("queue_capacity must not be negative, got %d", c.QueueCapacity)
	case c.LakeSeeds < 0:
		return fmt.Errorf("lake_seeds must not be negative, got %d", c.LakeSeeds)
	}
	switch c.Strategy {
	case growth.KindHillClimb, growth.KindMedialAxis, growth.KindPlanAPlanB:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	return nil
}
