// SPDX-License-Identifier: Unlicense OR MIT

// Package stock implements the StockMap (spec §4.6): the mutable record
// of material remaining above each grid point, updated once per rest-
// milling layer and read by the next.
package stock

import (
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
)

// StockMap is a dense 2D array of z-values, one per grid point, initialized
// flat at z=0 (stock top) and decreasing monotonically as layers are
// emitted (spec §3 lifecycle).
type StockMap struct {
	Segments, Rows int
	Z              []float32
}

// New returns a StockMap of the given shape, flat at z=0.
func New(segments, rows int) StockMap {
	return StockMap{Segments: segments, Rows: rows, Z: make([]float32, segments*rows)}
}

func (s StockMap) index(i, j int) int { return i*s.Rows + j }

// InBounds reports whether (i,j) addresses a valid cell.
func (s StockMap) InBounds(i, j int) bool {
	return i >= 0 && i < s.Segments && j >= 0 && j < s.Rows
}

// At returns the z-value at column i, row j.
func (s StockMap) At(i, j int) float32 {
	return s.Z[s.index(i, j)]
}

// Set writes the z-value at column i, row j.
func (s StockMap) Set(i, j int, z float32) {
	s.Z[s.index(i, j)] = z
}

// Point returns the full sample point at column i, row j, combining g's
// (x,y) address with s's z.
func (s StockMap) Point(g grid.Grid, i, j int) geo.Point3 {
	p := g.Point(i, j)
	p.Z = s.At(i, j)
	return p
}

// Clone returns an independent copy of s, used by the rest-milling loop to
// compare the map before and after an update pass (spec §4.6
// "Termination").
func (s StockMap) Clone() StockMap {
	z := make([]float32, len(s.Z))
	copy(z, s.Z)
	return StockMap{Segments: s.Segments, Rows: s.Rows, Z: z}
}
