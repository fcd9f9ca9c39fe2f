package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/dynamics"
	"github.com/san-kum/rigidsim/internal/dynamo"
)

// Simulator drives the rigid-body loop: integrate the continuous model
// over one frame, detect contacts, resolve them with impulses, and restart
// integration from the post-impulse state. Impulses bypass the ODE, so
// every resolved contact is a discontinuity the integrator must not step
// across.
type Simulator struct {
	sys       *dynamics.System
	integ     dynamo.Integrator
	resolver  *collision.Resolver
	source    ContactSource
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sys *dynamics.System, integ dynamo.Integrator, resolver *collision.Resolver, source ContactSource) *Simulator {
	if resolver == nil {
		resolver = collision.NewResolver()
	}
	return &Simulator{
		sys:      sys,
		integ:    integ,
		resolver: resolver,
		source:   source,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Resolver() *collision.Resolver { return s.resolver }
func (s *Simulator) System() *dynamics.System      { return s.sys }

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Restitution < 0 || cfg.Restitution > 1 {
		return fmt.Errorf("restitution must be in [0,1], got %f", cfg.Restitution)
	}
	return nil
}

// StepFrame advances the system one frame from time t: integrate to t+dt,
// resolve contacts and restart from the post-impulse state. It returns the
// flat state, the new time, and the number of impulses applied. Convergence
// failures leave the best available state in place.
func (s *Simulator) StepFrame(t, dt float64) (dynamo.State, float64, int, error) {
	x, err := s.sys.Encode()
	if err != nil {
		return nil, t, 0, err
	}

	newX, left, err := s.integ.Advance(x, t, t+dt, s.sys.Dxdt)
	if err != nil {
		return nil, t, 0, err
	}
	t += dt - left

	if err := s.sys.Decode(newX); err != nil {
		return nil, t, 0, err
	}

	resolved := 0
	if s.source != nil {
		contacts := s.source.Contacts(s.sys.Bodies, t)
		if len(contacts) > 0 {
			n, err := s.resolver.ResolveAll(contacts)
			if err != nil && !errors.Is(err, dynamo.ErrNoConvergence) {
				return nil, t, n, err
			}
			resolved = n
		}
	}

	x, err = s.sys.Encode()
	if err != nil {
		return nil, t, resolved, err
	}
	return x, t, resolved, nil
}

// Run executes the simulation until cfg.Duration. Convergence failures in
// the collision loop are recorded in Result.Errors and the run continues
// with the best available state; invalid state aborts the loop but the
// partial result is still returned.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.Threshold > 0 {
		s.resolver.Threshold = cfg.Threshold
	}
	s.resolver.Restitution = cfg.Restitution
	if cfg.MaxPasses > 0 {
		s.resolver.MaxPasses = cfg.MaxPasses
	}

	frames := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]dynamo.State, 0, frames+1),
		Times:   make([]float64, 0, frames+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.resolver.OnDiscontinuity = func() { result.Discontinuities++ }

	x, err := s.sys.Encode()
	if err != nil {
		return nil, err
	}
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		newX, left, err := s.integ.Advance(x, t, t+cfg.Dt, s.sys.Dxdt)
		if err != nil {
			return result, err
		}
		t += cfg.Dt - left

		if err := s.sys.Decode(newX); err != nil {
			return result, err
		}

		if s.source != nil {
			contacts := s.source.Contacts(s.sys.Bodies, t)
			if len(contacts) > 0 {
				if _, err := s.resolver.ResolveAll(contacts); err != nil {
					if !errors.Is(err, dynamo.ErrNoConvergence) {
						return result, err
					}
					result.Errors = append(result.Errors, dynamo.SimError{
						Time: t, Step: i, Message: err.Error(),
					})
				}
			}
		}

		// Re-encode from the bodies: after impulses this is the
		// post-discontinuity state integration restarts from.
		x, err = s.sys.Encode()
		if err != nil {
			return result, err
		}

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{
				Time: t, Step: i, Message: dynamo.ErrInvalidState.Error(),
			})
			break
		}

		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
