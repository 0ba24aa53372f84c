// SPDX-License-Identifier: Unlicense OR MIT

// Package tool builds cutter geometries: endmill, ball and v-bit, each
// represented as a fixed lattice of 3D offsets relative to the tool tip
// (spec §4.5).
package tool

import (
	"math"

	"golang.org/x/exp/slices"

	"dropcutter.dev/toolpath/geo"
)

// Kind identifies a cutter shape.
type Kind int

const (
	Endmill Kind = iota
	Ball
	Vbit
)

func (k Kind) String() string {
	switch k {
	case Endmill:
		return "endmill"
	case Ball:
		return "ball"
	case Vbit:
		return "vbit"
	default:
		return "unknown"
	}
}

// Offset is one sample of the tool body, relative to the tool tip.
type Offset struct {
	X, Y, Z float32
}

// Tool is a cutter template: a finite, ordered set of 3D offsets plus the
// cutter's 2D bounding radius.
type Tool struct {
	Kind     Kind
	Radius   float32
	Offsets  []Offset
}

// New builds a Tool for the given kind, diameter (mm) and scale
// (1/resolution, samples per mm). angle is the V-bit included angle in
// degrees and is ignored for Endmill and Ball.
func New(kind Kind, diameter float32, scale float32, angle float32) Tool {
	r := diameter / 2
	step := 1 / scale
	// The lattice is centred on the tip, so the (0,0) offset is always present.
	n := int(math.Floor(float64(r*scale) + 1e-4))

	var offs []Offset
	for i := -n; i <= n; i++ {
		x := float32(i) * step
		for j := -n; j <= n; j++ {
			y := float32(j) * step
			d2 := x*x + y*y
			if d2 > r*r {
				continue
			}
			d := float32(math.Sqrt(float64(d2)))
			var z float32
			switch kind {
			case Endmill:
				z = 0
			case Ball:
				z = -(r - float32(math.Sqrt(float64(r*r-d2))))
			case Vbit:
				halfAngle := float64(angle) * math.Pi / 180 / 2
				z = -float32(math.Tan(halfAngle)) * (r - d)
			}
			offs = append(offs, Offset{X: x, Y: y, Z: z})
		}
	}
	// Deterministic lexicographic order so floating-point max reductions
	// in the offset pass are reproducible (spec Design Notes, §9).
	slices.SortFunc(offs, func(a, b Offset) bool {
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return Tool{Kind: kind, Radius: r, Offsets: offs}
}

// XYZPoints returns t's offsets as points, relative to the tip at origin,
// for the tool.xyz debug point cloud (spec §6).
func (t Tool) XYZPoints() []geo.Point3 {
	pts := make([]geo.Point3, len(t.Offsets))
	for i, o := range t.Offsets {
		pts[i] = geo.Pt3(o.X, o.Y, o.Z)
	}
	return pts
}
