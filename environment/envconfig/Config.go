// Package envconfig provides configuration structs for configuring
// localization environments with named, default task parameters.
// Environment configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"image"

	"github.com/golocate/golocate/environment/localize"
	"github.com/golocate/golocate/feature"
	ts "github.com/golocate/golocate/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration. The variants differ only
// in how demanding the localization task is:
//
//	Environment			Task
//	Localize-v0			trigger accepted at IoU 0.5
//	LocalizeEasy-v0		trigger accepted at IoU 0.3
//	LocalizeHard-v0		trigger accepted at IoU 0.7, shorter episodes
const (
	Localize     EnvName = "Localize-v0"
	LocalizeEasy EnvName = "LocalizeEasy-v0"
	LocalizeHard EnvName = "LocalizeHard-v0"
)

// Config implements a specific configuration of a localization
// environment. A zero EpisodeCutoff or Discount falls back to the
// named environment's defaults.
type Config struct {
	Environment   EnvName
	EpisodeCutoff uint
	Discount      float64
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, episodeCutoff uint,
	discount float64) Config {
	return Config{
		Environment:   envName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. The environment localizes
// the argument target within img, computing observations with the
// argument feature extractor.
func (c Config) Create(img, original image.Image, target localize.Box,
	extractor feature.Extractor) (*localize.Env, ts.TimeStep, error) {
	config := localize.DefaultConfig()

	switch c.Environment {
	case Localize:

	case LocalizeEasy:
		config.Threshold = 0.3

	case LocalizeHard:
		config.Threshold = 0.7
		config.MaxSteps = 200

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
			"environment %v, no such environment", c.Environment)
	}

	if c.EpisodeCutoff != 0 {
		config.MaxSteps = int(c.EpisodeCutoff)
	}
	if c.Discount != 0 {
		config.Discount = c.Discount
	}

	return localize.New(img, original, target, extractor, config)
}
