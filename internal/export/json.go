package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rigidsim/internal/sim"
)

type RunData struct {
	Scene           string             `json:"scene"`
	Integrator      string             `json:"integrator"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Steps           int                `json:"steps"`
	Discontinuities int                `json:"discontinuities"`
	Times           []float64          `json:"times"`
	States          [][]float64        `json:"states"`
	Metrics         map[string]float64 `json:"metrics"`
}

func buildRunData(scene, integrator string, dt, duration float64, result *sim.Result) RunData {
	data := RunData{
		Scene:           scene,
		Integrator:      integrator,
		Dt:              dt,
		Duration:        duration,
		Steps:           len(result.Times),
		Discontinuities: result.Discontinuities,
		Times:           result.Times,
		States:          make([][]float64, len(result.States)),
		Metrics:         result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

func WriteJSON(w io.Writer, scene, integrator string, dt, duration float64, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildRunData(scene, integrator, dt, duration, result))
}

func ExportJSON(path, scene, integrator string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, scene, integrator, dt, duration, result)
}
