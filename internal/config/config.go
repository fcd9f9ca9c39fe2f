package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/rigid"
)

const (
	DefaultDt          = 0.01
	DefaultStepSize    = 0.001
	DefaultDuration    = 10.0
	DefaultGravity     = -9.81
	DefaultRestitution = 0.5
	DefaultThreshold   = 1e-6
	DefaultMaxPasses   = 64
	DefaultRadius      = 0.5
)

type Config struct {
	Integrator  string  `yaml:"integrator"`
	StepSize    float64 `yaml:"step_size"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
	Threshold   float64 `yaml:"threshold"`
	MaxPasses   int     `yaml:"max_passes"`

	Ground GroundConfig `yaml:"ground"`
	Bodies []BodyConfig `yaml:"bodies"`
}

type GroundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Height  float64 `yaml:"height"`
	Radius  float64 `yaml:"radius"`
}

type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Spin     [3]float64 `yaml:"spin"` // initial angular momentum
	// Extents of the solid box used for the inertia tensor. Zero means a
	// unit inverse inertia.
	Extents [3]float64 `yaml:"extents"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  "rk4",
		StepSize:    DefaultStepSize,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Gravity:     DefaultGravity,
		Restitution: DefaultRestitution,
		Threshold:   DefaultThreshold,
		MaxPasses:   DefaultMaxPasses,
		Ground: GroundConfig{
			Enabled: true,
			Height:  0,
			Radius:  DefaultRadius,
		},
		Bodies: []BodyConfig{
			{Mass: 1.0, Position: [3]float64{0, 5, 0}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildBodies materializes the configured initial conditions into rigid
// bodies.
func (c *Config) BuildBodies() ([]*rigid.Body, error) {
	if len(c.Bodies) == 0 {
		return nil, fmt.Errorf("config: no bodies defined")
	}

	bodies := make([]*rigid.Body, 0, len(c.Bodies))
	for i, bc := range c.Bodies {
		b, err := rigid.New(bc.Mass)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		b.X = mgl64.Vec3{bc.Position[0], bc.Position[1], bc.Position[2]}
		b.P = mgl64.Vec3{bc.Velocity[0], bc.Velocity[1], bc.Velocity[2]}.Mul(bc.Mass)
		b.L = mgl64.Vec3{bc.Spin[0], bc.Spin[1], bc.Spin[2]}

		if bc.Extents != ([3]float64{}) {
			inertia := rigid.SolidBoxInertia(bc.Mass, bc.Extents[0], bc.Extents[1], bc.Extents[2])
			inv, err := rigid.InverseInertia(inertia)
			if err != nil {
				return nil, fmt.Errorf("body %d: %w", i, err)
			}
			b.InvInertiaBody = inv
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}
