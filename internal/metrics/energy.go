package metrics

import (
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// KineticEnergy reports the latest total kinetic energy |P|²/2m + ½ L·ω.
// The bodies supply mass and inertia parameters; state comes from the flat
// vector so intermediate integrator states never leak in.
type KineticEnergy struct {
	name   string
	bodies []*rigid.Body
	work   rigid.Body
	latest float64
}

func NewKineticEnergy(bodies []*rigid.Body) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", bodies: bodies}
}

func (m *KineticEnergy) Name() string { return m.name }

func (m *KineticEnergy) Observe(x dynamo.State, t float64) {
	if len(x) != len(m.bodies)*rigid.StateSize {
		return
	}
	total := 0.0
	for i, b := range m.bodies {
		m.work = *b
		if err := rigid.ArrayToState(x, &m.work, i*rigid.StateSize); err != nil {
			return
		}
		if m.work.IsStatic() {
			continue
		}
		p := m.work.P
		total += p.Dot(p) / (2 * m.work.Mass)
		total += 0.5 * m.work.L.Dot(m.work.AngularVelocity())
	}
	m.latest = total
}

func (m *KineticEnergy) Value() float64 { return m.latest }

func (m *KineticEnergy) Reset() { m.latest = 0 }
