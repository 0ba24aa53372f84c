// SPDX-License-Identifier: Unlicense OR MIT

// Package grid derives the sampling grid and column buckets from a mesh's
// bounds, the requested resolution, and the tool's diameter/stepover
// (spec §4.2).
package grid

import (
	"math"

	"dropcutter.dev/toolpath/geo"
)

// Grid is an ordered sequence of columns, each an ordered sequence of
// sample points; Grid[i][j] addresses column i, row j.
type Grid struct {
	Bounds   geo.Bounds
	Scale    float32 // samples per mm (1/resolution)
	Segments int     // columns
	Rows     int
	Columns  []Column
}

// Column pairs a 2D bucketing box with the triangle list partitioned into
// it (populated later by package partition).
type Column struct {
	Box       geo.AABB2
	Triangles []int // indices into the owning Mesh.Triangles
}

// Point returns the (x,y,z) sample address at column i, row j. z is always
// bounds.P1.Z; it exists only so callers can treat grid addresses as
// geo.Point3 uniformly with HeightMap/StockMap cells.
func (g Grid) Point(i, j int) geo.Point3 {
	return geo.Pt3(
		g.Bounds.P1.X+float32(i)/g.Scale,
		g.Bounds.P1.Y+float32(j)/g.Scale,
		g.Bounds.P1.Z,
	)
}

// Derive builds the Grid and its (unfilled) column buckets for the given
// bounds, resolution (mm/sample), tool diameter and stepover percentage.
func Derive(bounds geo.Bounds, resolution, diameter, stepoverPct float32) Grid {
	scale := 1 / resolution
	radius := diameter / 2

	segments := int(math.Floor(float64(bounds.P2.X*scale))) - int(math.Ceil(float64(bounds.P1.X*scale))) + 1
	rows := int(math.Floor(float64(bounds.P2.Y*scale))) - int(math.Ceil(float64(bounds.P1.Y*scale))) + 1
	if segments < 1 {
		segments = 1
	}
	if rows < 1 {
		rows = 1
	}

	columns := make([]Column, segments)
	for c := 0; c < segments; c++ {
		cx := bounds.P1.X + float32(c)/scale
		columns[c] = Column{
			Box: geo.AABB2{
				P1: geo.Pt3(cx-radius, bounds.P1.Y, 0),
				P2: geo.Pt3(cx+radius, bounds.P2.Y, 0),
			},
		}
	}

	return Grid{
		Bounds:   bounds,
		Scale:    scale,
		Segments: segments,
		Rows:     rows,
		Columns:  columns,
	}
}

// StepSamples returns the stepover expressed in grid samples,
// k = ceil(stepover_mm * scale), per spec §4.6.
func (g Grid) StepSamples(diameter, stepoverPct float32) int {
	stepoverMM := diameter * stepoverPct / 100
	k := int(math.Ceil(float64(stepoverMM * g.Scale)))
	if k < 1 {
		k = 1
	}
	return k
}
