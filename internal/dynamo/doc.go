// Package dynamo provides core simulation primitives for rigid-body dynamics.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: flat vector encoding one or more rigid bodies
//   - [DerivFunc]: derivative callback (dX/dt = f(t, X))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Metric]: per-run scalar accumulator
//
// # Example
//
//	sys := dynamics.NewSystem(bodies, dynamics.Gravity{})
//	integ, _ := integrators.New("rk4", 0.001)
//	xEnd, left, err := integ.Advance(x0, 0, 1.0, sys.Dxdt)
//
// # Thread Safety
//
// Integrators and resolvers are NOT thread-safe with respect to shared
// bodies or contact lists; impulse application is a read-modify-write on
// body momenta. Disjoint body sets may be advanced concurrently, as
// [sim.Ensemble] does.
package dynamo
