package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
	"github.com/san-kum/rigidsim/internal/sim"
)

func flatState(positions ...[2]float64) []float64 {
	x := make([]float64, len(positions)*rigid.StateSize)
	for i, p := range positions {
		off := i * rigid.StateSize
		x[off] = p[0]
		x[off+1] = p[1]
		x[off+3], x[off+7], x[off+11] = 1, 1, 1
	}
	return x
}

func TestBodyTrajectories(t *testing.T) {
	states := [][]float64{
		flatState([2]float64{0, 5}, [2]float64{1, 3}),
		flatState([2]float64{0, 4.9}, [2]float64{1.1, 2.9}),
	}

	paths := BodyTrajectories(states)
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if len(paths[0]) != 2 {
		t.Fatalf("expected 2 points per path, got %d", len(paths[0]))
	}
	if paths[0][1].Y != 4.9 {
		t.Errorf("path point = %v", paths[0][1])
	}
	if paths[1][0].X != 1 {
		t.Errorf("second body x = %f", paths[1][0].X)
	}
}

func TestTrajectoriesToSVG(t *testing.T) {
	paths := [][]Point{
		{{0, 0}, {1, 1}, {2, 0.5}},
		{{0, 2}, {1, 1.5}},
	}

	svg := TrajectoriesToSVG(paths, 800, 600)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 path elements, got %d", strings.Count(svg, "<path"))
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
}

func TestTrajectoriesToSVG_Empty(t *testing.T) {
	if svg := TrajectoriesToSVG(nil, 800, 600); svg != "" {
		t.Error("expected empty string for no paths")
	}
	if svg := TrajectoriesToSVG([][]Point{{{0, 0}}}, 800, 600); svg != "" {
		t.Error("expected empty string for a single point")
	}
}

func TestWriteJSON(t *testing.T) {
	result := &sim.Result{
		States:          []dynamo.State{flatState([2]float64{0, 5})},
		Times:           []float64{0},
		Discontinuities: 1,
		Metrics:         map[string]float64{"kinetic_energy": 2.5},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, "drop", "rk4", 0.01, 1.0, result); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var data RunData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.Scene != "drop" || data.Steps != 1 || data.Discontinuities != 1 {
		t.Errorf("round trip mismatch: %+v", data)
	}
	if data.Metrics["kinetic_energy"] != 2.5 {
		t.Errorf("metrics = %v", data.Metrics)
	}
}
