// SPDX-License-Identifier: Unlicense OR MIT

// Package heightmap implements the drop-cutter ray-casting kernel (spec
// §4.4): for every grid sample, the maximum z at which an infinitely thin
// vertical probe meets the mesh.
package heightmap

import (
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
)

// HeightMap is a dense 2D array of z-values, immutable once generated
// (spec §3 lifecycle).
type HeightMap struct {
	Segments, Rows int
	Bottom         float32 // sentinel z for columns with no overlapping triangle
	Z              []float32
}

func newMap(segments, rows int, bottom float32) HeightMap {
	z := make([]float32, segments*rows)
	for i := range z {
		z[i] = bottom
	}
	return HeightMap{Segments: segments, Rows: rows, Bottom: bottom, Z: z}
}

func (h HeightMap) index(i, j int) int { return i*h.Rows + j }

// At returns the z-value at column i, row j.
func (h HeightMap) At(i, j int) float32 {
	return h.Z[h.index(i, j)]
}

// Set writes the z-value at column i, row j.
func (h HeightMap) Set(i, j int, z float32) {
	h.Z[h.index(i, j)] = z
}

// Point returns the full sample point at column i, row j, combining g's
// (x,y) address with h's z.
func (h HeightMap) Point(g grid.Grid, i, j int) geo.Point3 {
	p := g.Point(i, j)
	p.Z = h.At(i, j)
	return p
}
