// Package simulation runs a colony forward through time by repeatedly asking
// the production solver how long its current rates hold, applying them, and
// recording what happened.
package simulation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

// Options control a run
type Options struct {
	SecondsPerDay float64
	// MaxSteps bounds the number of solver calls
	MaxSteps int
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{SecondsPerDay: production.SecondsPerDay, MaxSteps: 10000}
}

// Result is everything a run produced. It is returned alongside errors so a
// starved or cancelled run can still be inspected.
type Result struct {
	Colony   *Colony
	Timeline *Timeline
	Events   []Event
	Elapsed  float64
}

// Runner advances colonies. The sink accumulates research across runs.
type Runner struct {
	sink   models.ResearchSink
	opts   Options
	logger zerolog.Logger
}

// NewRunner creates a runner reporting research to sink
func NewRunner(sink models.ResearchSink, opts Options, logger zerolog.Logger) *Runner {
	if opts.SecondsPerDay <= 0 {
		opts.SecondsPerDay = production.SecondsPerDay
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultOptions().MaxSteps
	}
	return &Runner{
		sink:   sink,
		opts:   opts,
		logger: logger.With().Str("component", "Runner").Logger(),
	}
}

// Run simulates span seconds starting from colony, which is left untouched.
// It stops early with a *StarvationError when the crew can't be fed, with
// ErrNoProgress when the step budget runs out, or with ctx's error.
func (r *Runner) Run(ctx context.Context, colony *Colony, span float64) (*Result, error) {
	state := colony.Clone()
	queue := NewEventQueue()
	result := &Result{Colony: state, Timeline: &Timeline{}}
	solverOpts := production.Options{SecondsPerDay: r.opts.SecondsPerDay}

	finish := func(err error) (*Result, error) {
		r.logger.Debug().Int("events", queue.Len()).Msg("Draining events")
		result.Events = queue.Drain()
		result.Elapsed = state.Now
		return result, err
	}

	r.logger.Info().
		Str("colony", state.Name).
		Int("crew", state.Crew).
		Float64("span_seconds", span).
		Msg("Starting run")

	for step := 0; state.Now < span; step++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if step >= r.opts.MaxSteps {
			return finish(fmt.Errorf("%w: %d steps reached %.0f of %.0f seconds", ErrNoProgress, step, state.Now, span))
		}

		remaining := span - state.Now
		u := production.CalculateResourceUtilizationWithOptions(
			solverOpts, state.Crew, remaining,
			state.Producers, state.Combiners, r.sink,
			state.Resources, state.Storage)

		if !u.Feasible() {
			queue.Push(Event{Time: state.Now, Type: EventStarved, Step: step})
			r.logger.Warn().
				Int("step", step).
				Float64("at_seconds", state.Now).
				Strs("limiting", u.LimitingResources).
				Msg("Crew cannot be fed")
			return finish(&StarvationError{At: state.Now, Crew: state.Crew, Limiting: u.LimitingResources})
		}

		start := state.Now
		depleted, full := state.Apply(u)
		if u.TimePassed >= remaining {
			state.Now = span
		}
		result.Timeline.Append(step, start, u)

		for _, key := range depleted {
			queue.Push(Event{Time: state.Now, Type: EventDepleted, Resource: key, Step: step})
		}
		for _, key := range full {
			queue.Push(Event{Time: state.Now, Type: EventStorageFull, Resource: key, Step: step})
		}
		for _, res := range u.Breakthroughs {
			queue.Push(Event{Time: state.Now, Type: EventBreakthrough, Resource: res.BaseName, Step: step})
		}

		r.logger.Debug().
			Int("step", step).
			Float64("start_seconds", start).
			Float64("duration_seconds", u.TimePassed).
			Strs("limiting", u.LimitingResources).
			Strs("depleted", depleted).
			Strs("full", full).
			Int("breakthroughs", len(u.Breakthroughs)).
			Msg("Advanced colony")
	}

	r.logger.Info().
		Str("colony", state.Name).
		Int("steps", len(result.Timeline.Steps)).
		Float64("elapsed_seconds", state.Now).
		Int("events", queue.Len()).
		Msg("Run complete")
	return finish(nil)
}
