package sim

import (
	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// ContactSource produces the contact descriptors for the current body
// configuration. Contact generation (narrow phase, mesh queries) lives
// behind this interface; the driver only resolves what it is handed.
type ContactSource interface {
	Contacts(bodies []*rigid.Body, t float64) []collision.Contact
}

// ContactSourceFunc adapts a function to the ContactSource interface.
type ContactSourceFunc func(bodies []*rigid.Body, t float64) []collision.Contact

func (f ContactSourceFunc) Contacts(bodies []*rigid.Body, t float64) []collision.Contact {
	return f(bodies, t)
}

type Config struct {
	Dt            float64 // frame interval between collision checks
	Duration      float64
	Seed          int64
	Restitution   float64
	Threshold     float64
	MaxPasses     int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Restitution:   collision.DefaultRestitution,
		Threshold:     collision.DefaultThreshold,
		MaxPasses:     collision.DefaultMaxPasses,
		ValidateState: true,
	}
}

type Result struct {
	States          []dynamo.State
	Times           []float64
	Metrics         map[string]float64
	StepsTaken      int
	Discontinuities int
	Errors          []error
}
