// SPDX-License-Identifier: Unlicense OR MIT

// Package offset implements the tool-offset pass (spec §4.6): the inverse-
// Minkowski computation that, given a height map and the current stock
// surface, produces one cuttable Layer per rest-milling iteration and
// folds it back into the stock map.
package offset

import "math"

// Layer is one pass's worth of cut targets, produced fresh per iteration
// (spec §3 lifecycle). It is addressed by the same (x,y) grid coordinates
// as HeightMap/StockMap but only over the sampled subgrid §4.6 defines
// (stepover-spaced columns, tool-radius-inset rows); cells with nothing to
// cut carry a NaN z.
//
// A dense array is simpler to address and is what this implementation
// uses; a sparse list of (x,y,z) triples is an equally valid
// representation from the caller's side (spec §3, "Dense vs. sparse
// layers").
type Layer struct {
	// ColStart is the first column index sampled (⌈r·scale⌉); NumCols
	// counts the sampled columns, spaced by the stepover-in-samples Stride.
	ColStart, Stride, NumCols int
	// RowStart is the first row sampled (⌈r·scale⌉); NumRows runs to the
	// grid's last row.
	RowStart, NumRows int
	Z                 []float32 // NumCols * NumRows, column by column: each sampled column's rows are contiguous
}

func newLayer(colStart, stride, numCols, rowStart, numRows int) Layer {
	z := make([]float32, numCols*numRows)
	for i := range z {
		z[i] = float32(math.NaN())
	}
	return Layer{
		ColStart: colStart, Stride: stride, NumCols: numCols,
		RowStart: rowStart, NumRows: numRows,
		Z: z,
	}
}

func (l Layer) index(ci, ri int) int { return ci*l.NumRows + ri }

// At returns the z sampled at the ci-th sampled column and ri-th sampled
// row (0-based into the sampled subgrid, not raw grid coordinates).
func (l Layer) At(ci, ri int) float32 { return l.Z[l.index(ci, ri)] }

func (l Layer) set(ci, ri int, z float32) { l.Z[l.index(ci, ri)] = z }

// Column converts the ci-th sampled column back to a raw grid column index.
func (l Layer) Column(ci int) int { return l.ColStart + ci*l.Stride }

// Row converts the ri-th sampled row back to a raw grid row index.
func (l Layer) Row(ri int) int { return l.RowStart + ri }

func isNaN32(f float32) bool { return f != f }
