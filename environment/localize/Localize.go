package localize

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	env "github.com/golocate/golocate/environment"
	"github.com/golocate/golocate/feature"
	ts "github.com/golocate/golocate/timestep"
)

// Default configuration values
const (
	DefaultMaxSteps   int     = 500
	DefaultAlpha      float64 = 0.2
	DefaultNu         float64 = 3.0
	DefaultThreshold  float64 = 0.5
	DefaultTargetSize int     = feature.VGG16TargetSize
)

// Config holds the per-episode parameters of the environment. A Config
// is bound at construction or reset and is immutable for the episode's
// duration.
type Config struct {
	// MaxSteps is the episode step limit
	MaxSteps int

	// Alpha is the fraction of the current box extent moved or scaled
	// per geometric action
	Alpha float64

	// Nu is the magnitude of the terminal trigger reward
	Nu float64

	// Threshold is the overlap the box must reach for the trigger to
	// be rewarded positively
	Threshold float64

	// TargetSize is the square resolution the episode image is resized
	// to before feature extraction
	TargetSize int

	// Discount is the discount factor reported on each timestep
	Discount float64
}

// DefaultConfig returns the canonical environment configuration
func DefaultConfig() Config {
	return Config{
		MaxSteps:   DefaultMaxSteps,
		Alpha:      DefaultAlpha,
		Nu:         DefaultNu,
		Threshold:  DefaultThreshold,
		TargetSize: DefaultTargetSize,
		Discount:   1.0,
	}
}

// Validate checks the configuration values, returning a ConfigError
// for the first value outside its legal range
func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return &ConfigError{"MaxSteps", float64(c.MaxSteps),
			"step limit must be positive"}
	}
	if c.Alpha <= 0 {
		return &ConfigError{"Alpha", c.Alpha,
			"step fraction must be positive"}
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigError{"Threshold", c.Threshold,
			"overlap threshold must be in [0, 1]"}
	}
	if c.TargetSize <= 0 {
		return &ConfigError{"TargetSize", float64(c.TargetSize),
			"feature input resolution must be positive"}
	}
	if c.Discount < 0 || c.Discount > 1 {
		return &ConfigError{"Discount", c.Discount,
			"discount must be in [0, 1]"}
	}
	return nil
}

// Info is a snapshot of the environment reported alongside every step
type Info struct {
	TargetBox        Box
	Height           int
	Width            int
	TargetSize       int
	MaxSteps         int
	StepCount        int
	Alpha            float64
	Nu               float64
	CumulativeReward float64
	Threshold        float64
	ActionsHistory   [][]float64
	NumEpisodes      int
	Box              Box
	Extractor        feature.Extractor
	Transform        feature.Transform
	IoU              float64
	Recall           float64
	Terminated       bool
	Truncated        bool
	GeometryWarnings int
}

// Env is the localization episode controller. It owns the bounding box
// state and action history; the episode image, target box, and feature
// extractor are supplied by the caller and referenced for the
// episode's duration. The extractor is always injected, never
// constructed implicitly, and may be shared read-only between Env
// instances.
//
// Env is not safe for concurrent use; vectorized rollouts should run
// one Env per goroutine.
type Env struct {
	config    Config
	image     image.Image
	original  image.Image
	target    Box
	width     float64
	height    float64
	extractor feature.Extractor
	transform feature.Transform

	box              Box
	history          *History
	stepCount        int
	cumulativeReward float64
	terminated       bool
	truncated        bool
	geometryWarnings int

	// numEpisodes counts episodes that ran to natural termination. It
	// is environment-lifetime state: set once at construction and
	// never cleared by Reset.
	numEpisodes int

	stepLimit env.StepLimit
	closed    bool
}

// New returns a localization environment over the given episode image
// and target region, along with the first timestep of the episode. The
// original image is retained untouched for rendering. The feature
// extractor is a required collaborator.
func New(img, original image.Image, target Box,
	extractor feature.Extractor, config Config) (*Env, ts.TimeStep, error) {
	if extractor == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: nil feature extractor")
	}

	e := &Env{extractor: extractor, history: NewHistory()}

	firstStep, err := e.Reset(img, original, target, config)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return e, firstStep, nil
}

// Reset starts a new episode over a new image, target box, and
// configuration. The bounding box is reset to the full image extents
// and the action history is reseeded with sentinel rows. The episode
// counter is environment-lifetime state and is left untouched.
func (e *Env) Reset(img, original image.Image, target Box,
	config Config) (ts.TimeStep, error) {
	if err := config.Validate(); err != nil {
		return ts.TimeStep{}, err
	}
	if img == nil {
		return ts.TimeStep{}, fmt.Errorf("reset: nil image")
	}

	bounds := img.Bounds()
	e.config = config
	e.image = img
	e.original = original
	e.target = target
	e.width = float64(bounds.Dx())
	e.height = float64(bounds.Dy())
	e.transform = feature.ResizeTo(config.TargetSize)

	e.box = NewBox(0, 0, e.width, e.height)
	e.history.Reset()
	e.stepCount = 0
	e.cumulativeReward = 0
	e.terminated = false
	e.truncated = false
	e.geometryWarnings = 0
	e.stepLimit = env.NewStepLimit(config.MaxSteps)

	obs, err := e.GetState()
	if err != nil {
		return ts.TimeStep{}, err
	}
	return ts.New(ts.First, 0, e.config.Discount, obs, 0), nil
}

// Step executes one action. Geometric actions edit the bounding box
// and earn the shaping reward computed against the pre-edit box; the
// trigger action earns the terminal reward and terminates the episode
// immediately. Termination by trigger is sticky: the step-limit check
// never overwrites it on the same call. The step limit marks the
// episode both terminated and truncated, and the episode counter
// increments exactly when either flag newly becomes true.
func (e *Env) Step(action int) (ts.TimeStep, Info, error) {
	if action < 0 || action >= NumActions {
		return ts.TimeStep{}, Info{}, &InvalidActionError{Action: action}
	}

	// The trigger is recorded in the history like any other action
	e.history.Push(action)

	wasDone := e.terminated || e.truncated

	var reward float64
	triggered := false
	if action < ActionTrigger {
		oldBox := e.box
		moved := Transform(oldBox, action, e.config.Alpha, e.width, e.height)

		canonical, swapped := moved.Canonical()
		if swapped {
			e.geometryWarnings++
		}
		e.box = canonical

		reward = StepReward(e.box, oldBox, e.target)
	} else {
		reward = TriggerReward(e.box, e.target, e.config.Threshold,
			e.config.Nu)
		e.terminated = true
		triggered = true
	}

	e.cumulativeReward += reward
	e.stepCount++

	obs, err := e.GetState()
	if err != nil {
		return ts.TimeStep{}, Info{}, err
	}

	nextStep := ts.New(ts.Mid, reward, e.config.Discount, obs, e.stepCount)
	if triggered {
		nextStep.StepType = ts.Last
		nextStep.SetEnd(ts.TerminalStateReached)
	} else if !e.terminated && e.stepLimit.End(&nextStep) {
		// Reaching the step limit trips both flags at once
		e.terminated = true
		e.truncated = true
	}

	if !wasDone && (e.terminated || e.truncated) {
		e.numEpisodes++
	}

	return nextStep, e.info(), nil
}

// GetState returns the current observation: the feature embedding of
// the episode image concatenated with the flattened action history.
// Features are recomputed on every call; nothing is cached.
func (e *Env) GetState() (*mat.VecDense, error) {
	resized, err := e.transform(e.image)
	if err != nil {
		return nil, &FeatureExtractionError{Err: err}
	}

	features, err := e.extractor.Features(resized)
	if err != nil {
		return nil, &FeatureExtractionError{Err: err}
	}

	flat := e.history.Flatten()
	obs := mat.NewVecDense(features.Len()+len(flat), nil)
	for i := 0; i < features.Len(); i++ {
		obs.SetVec(i, features.AtVec(i))
	}
	for i, v := range flat {
		obs.SetVec(features.Len()+i, v)
	}
	return obs, nil
}

// info snapshots the environment state for the caller
func (e *Env) info() Info {
	return Info{
		TargetBox:        e.target,
		Height:           int(e.height),
		Width:            int(e.width),
		TargetSize:       e.config.TargetSize,
		MaxSteps:         e.config.MaxSteps,
		StepCount:        e.stepCount,
		Alpha:            e.config.Alpha,
		Nu:               e.config.Nu,
		CumulativeReward: e.cumulativeReward,
		Threshold:        e.config.Threshold,
		ActionsHistory:   e.history.Rows(),
		NumEpisodes:      e.numEpisodes,
		Box:              e.box,
		Extractor:        e.extractor,
		Transform:        e.transform,
		IoU:              IoU(e.box, e.target),
		Recall:           Recall(e.box, e.target),
		Terminated:       e.terminated,
		Truncated:        e.truncated,
		GeometryWarnings: e.geometryWarnings,
	}
}

// Box returns the current bounding box
func (e *Env) Box() Box {
	return e.box
}

// Target returns the episode's target box
func (e *Env) Target() Box {
	return e.target
}

// Terminated returns whether the current episode has ended by trigger
// or step limit
func (e *Env) Terminated() bool {
	return e.terminated
}

// Truncated returns whether the current episode has ended by step
// limit
func (e *Env) Truncated() bool {
	return e.truncated
}

// Episodes returns how many episodes have run to natural termination
// over the environment's lifetime
func (e *Env) Episodes() int {
	return e.numEpisodes
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(NumActions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment. The nominal bounds are [0, 1] per feature; sentinel
// values in the unfilled action-history rows fall outside this range,
// so the bounds are advisory rather than enforced.
func (e *Env) ObservationSpec() env.Spec {
	length := e.extractor.Len() + e.history.Len()
	shape := mat.NewVecDense(length, nil)

	lowerBound := mat.NewVecDense(length, nil)
	upper := make([]float64, length)
	for i := range upper {
		upper[i] = 1.0
	}
	upperBound := mat.NewVecDense(length, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// Close releases environment resources. It is idempotent.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.image = nil
	e.original = nil
	return nil
}

// String returns a string representation of the environment
func (e *Env) String() string {
	str := "Localize  |  Box: %v  |  Target: %v  |  IoU: %.3f  |  Step: %d/%d"
	return fmt.Sprintf(str, e.box, e.target, IoU(e.box, e.target),
		e.stepCount, e.config.MaxSteps)
}
