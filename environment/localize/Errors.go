package localize

import "fmt"

// InvalidActionError is returned by Step when the action index is
// outside the discrete action space [0, NumActions).
type InvalidActionError struct {
	Action int
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %d: actions are integers in [0, %d]",
		e.Action, NumActions-1)
}

// ConfigError is returned when an environment configuration value is
// outside its legal range.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %v = %v: %v", e.Field, e.Value,
		e.Reason)
}

// FeatureExtractionError wraps a failure of the feature extractor on
// the episode image. Extraction failures are surfaced to the caller
// without retry.
type FeatureExtractionError struct {
	Err error
}

func (e *FeatureExtractionError) Error() string {
	return fmt.Sprintf("feature extraction: %v", e.Err)
}

func (e *FeatureExtractionError) Unwrap() error {
	return e.Err
}
