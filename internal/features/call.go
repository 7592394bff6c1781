/*
Package features implements the four feature controllers of the dashboard
(finance, recipes, fitness, goals). Each controller owns its state, validates
input, and drives one prompt → model → parse pipeline at a time.
*/
package features

import (
	"context"
	"errors"
	"sync"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"github.com/rs/zerolog"
)

// Feature names one of the four independent dashboard sections.
type Feature string

const (
	FeatureFinance Feature = "finance"
	FeatureRecipes Feature = "recipes"
	FeatureFitness Feature = "fitness"
	FeatureGoals   Feature = "goals"
)

// Generator is the part of the model gateway the controllers depend on.
type Generator interface {
	Invoke(ctx context.Context, prompt string, schema *geminiservice.GeminiSchema) (string, error)
}

// Notifier is told once per finished generation. err is nil on success.
type Notifier interface {
	GenerationFinished(feature Feature, err error)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(feature Feature, err error)

func (f NotifierFunc) GenerationFinished(feature Feature, err error) { f(feature, err) }

// Status is the pending marker and last user-facing error of a feature.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Call is one in-flight generation. It is pending until Done is closed,
// then terminal: Err reports the outcome and never changes again.
type Call struct {
	feature Feature
	done    chan struct{}
	once    sync.Once
	err     error
}

func newCall(feature Feature) *Call {
	return &Call{feature: feature, done: make(chan struct{})}
}

func (c *Call) Feature() Feature { return c.feature }

// Done is closed exactly once, after the controller state has been updated.
func (c *Call) Done() <-chan struct{} { return c.done }

// Err returns nil while the call is pending.
func (c *Call) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the call finishes or ctx ends. Leaving early does not
// cancel the generation.
func (c *Call) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Call) finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// pipeline holds what every controller needs to run a generation.
type pipeline struct {
	feature        Feature
	failureMessage string
	gen            Generator
	notifier       Notifier
}

/*
start runs builder output → gateway → parser in the background.
apply is called exactly once with the parsed value or the failure, and must
take the controller lock itself. The caller's cancellation is dropped so a
started generation always runs to completion.
*/
func start[T any](ctx context.Context, p pipeline, uc geminiservice.UseCase, prompt string, parse func(string) (T, error), apply func(T, error)) *Call {
	call := newCall(p.feature)
	ctx = context.WithoutCancel(ctx)

	go func() {
		v, err := generate(ctx, p.gen, uc, prompt, parse)

		log := zerolog.Ctx(ctx)
		if err != nil {
			log.Error().Err(err).Str("feature", string(p.feature)).Msg("Generation failed")
		} else {
			log.Info().Str("feature", string(p.feature)).Msg("Generation succeeded")
		}

		apply(v, err)
		call.finish(err)
		if p.notifier != nil {
			p.notifier.GenerationFinished(p.feature, err)
		}
	}()

	return call
}

func generate[T any](ctx context.Context, gen Generator, uc geminiservice.UseCase, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T

	logger := zerolog.Ctx(ctx).With().Str("use_case", string(uc)).Logger()
	ctx = logger.WithContext(ctx)

	raw, err := gen.Invoke(ctx, prompt, geminiservice.SchemaFor(uc))
	if err != nil {
		var genErr *geminiservice.GenerationError
		if !errors.As(err, &genErr) {
			err = &geminiservice.GenerationError{Err: err}
		}
		return zero, err
	}

	v, err := parse(raw)
	if err != nil {
		return zero, err
	}
	return v, nil
}
