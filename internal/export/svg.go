package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigidsim/internal/rigid"
)

type Point struct {
	X, Y float64
}

var strokeColors = []string{"#00ff00", "#00bfff", "#ff6b6b", "#ffd93d", "#c084fc", "#f97316"}

// BodyTrajectories extracts the XY path of every body from a sequence of
// flat states.
func BodyTrajectories(states [][]float64) [][]Point {
	if len(states) == 0 {
		return nil
	}
	numBodies := len(states[0]) / rigid.StateSize
	if numBodies == 0 {
		return nil
	}

	paths := make([][]Point, numBodies)
	for b := 0; b < numBodies; b++ {
		paths[b] = make([]Point, 0, len(states))
	}
	for _, x := range states {
		for b := 0; b < numBodies; b++ {
			off := b * rigid.StateSize
			if off+1 >= len(x) {
				continue
			}
			paths[b] = append(paths[b], Point{X: x[off], Y: x[off+1]})
		}
	}
	return paths
}

// TrajectoriesToSVG renders per-body XY trajectories as colored polyline
// paths over a shared coordinate frame.
func TrajectoriesToSVG(paths [][]Point, width, height int) string {
	total := 0
	for _, p := range paths {
		total += len(p)
	}
	if total < 2 {
		return ""
	}

	first := true
	var minX, maxX, minY, maxY float64
	for _, path := range paths {
		for _, p := range path {
			if first {
				minX, maxX = p.X, p.X
				minY, maxY = p.Y, p.Y
				first = false
				continue
			}
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, path := range paths {
		if len(path) < 2 {
			continue
		}
		color := strokeColors[i%len(strokeColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range path {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
