// SPDX-License-Identifier: Unlicense OR MIT

package offset

import (
	"math"

	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/heightmap"
	"dropcutter.dev/toolpath/stock"
	"dropcutter.dev/toolpath/tool"
)

// OnLayer is called once per iteration with the freshly produced Layer,
// already folded into s by the time it's called. It is kept alive only
// for the duration of this call (spec §3, "kept only long enough to emit
// G-code") — implementations that need to persist it must copy.
type OnLayer func(iteration int, layer Layer) error

// Run performs the layered rest-milling loop (spec §4.6, §4.9): repeatedly
// computing a Layer against h and the mutable s, folding it back into s,
// and invoking onLayer, until s stops changing (within 3-ulp tolerance) or
// the hard iteration cap is reached. It returns the number of iterations
// actually run.
func Run(h heightmap.HeightMap, s stock.StockMap, g grid.Grid, t tool.Tool, stepdown, stepoverPct float32, onLayer OnLayer) (int, error) {
	limit := iterationCap(g.Bounds.P2.Z, g.Bounds.P1.Z, stepdown)
	for i := 0; i < limit; i++ {
		before := s.Clone()
		layer := Pass(h, s, g, t, stepdown, stepoverPct)
		Update(s, g, layer, t)
		if onLayer != nil {
			if err := onLayer(i, layer); err != nil {
				return i + 1, err
			}
		}
		if stock.EqualWithinULP(before, s) {
			return i + 1, nil
		}
	}
	return limit, nil
}

// iterationCap implements spec §4.6's hard cap:
// ceil((max_z - min_z) / d) + 1.
func iterationCap(maxZ, minZ, stepdown float32) int {
	if stepdown <= 0 {
		return 1
	}
	return int(math.Ceil(float64((maxZ-minZ)/stepdown))) + 1
}
