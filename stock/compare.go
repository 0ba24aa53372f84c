// SPDX-License-Identifier: Unlicense OR MIT

package stock

import "gonum.org/v1/gonum/floats"

// ulpTolerance is the "3-ulp tolerance" spec §4.6 and §8 require for both
// the layer's zero-cut sentinel check and the loop's termination check.
const ulpTolerance = 3

// CompareAndSet records the material the cutter body swept at (i,j):
// S[i][j] = min(S[i][j], z) (spec §4.6, "Update pass"). Callers run this
// only after every worker has finished the read phase that produced z, so
// no per-cell synchronization is needed here (spec §5's barrier contract).
func (s StockMap) CompareAndSet(i, j int, z float32) {
	idx := s.index(i, j)
	if z < s.Z[idx] {
		s.Z[idx] = z
	}
}

// EqualWithinULP reports whether a and b have the same shape and are
// elementwise equal within a 3-ulp tolerance (spec §4.6, "Termination").
func EqualWithinULP(a, b StockMap) bool {
	if a.Segments != b.Segments || a.Rows != b.Rows {
		return false
	}
	for i := range a.Z {
		if !floats.EqualWithinULP(float64(a.Z[i]), float64(b.Z[i]), ulpTolerance) {
			return false
		}
	}
	return true
}

// EqualWithinULP32 is the scalar form used outside a full-map comparison,
// e.g. the layer's "nothing to cut here" check (spec §4.6 step 4).
func EqualWithinULP32(a, b float32) bool {
	return floats.EqualWithinULP(float64(a), float64(b), ulpTolerance)
}
