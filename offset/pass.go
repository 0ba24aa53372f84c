// SPDX-License-Identifier: Unlicense OR MIT

package offset

import (
	"math"
	"runtime"
	"sync"

	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/heightmap"
	"dropcutter.dev/toolpath/stock"
	"dropcutter.dev/toolpath/tool"
)

// sampledRange returns the sampled columns/rows §4.6 defines: columns
// start at ⌈r·scale⌉ and stride by k = ceil(stepover_mm·scale); rows run
// from ⌈r·scale⌉ to the grid's last row.
func sampledRange(g grid.Grid, t tool.Tool, stepoverPct float32) (colStart, stride, numCols, rowStart, numRows int) {
	inset := int(math.Ceil(float64(t.Radius * g.Scale)))
	stride = g.StepSamples(t.Radius*2, stepoverPct)
	rowStart = inset
	numRows = g.Rows - rowStart
	if numRows < 0 {
		numRows = 0
	}
	colStart = inset
	for x := colStart; x < g.Segments; x += stride {
		numCols++
	}
	return
}

// Pass computes one rest-milling Layer from h and the current stock s,
// per spec §4.6's per-sample contract: the read phase only. It never
// mutates s; callers run Update after every worker here has finished.
func Pass(h heightmap.HeightMap, s stock.StockMap, g grid.Grid, t tool.Tool, stepdown, stepoverPct float32) Layer {
	colStart, stride, numCols, rowStart, numRows := sampledRange(g, t, stepoverPct)
	layer := newLayer(colStart, stride, numCols, rowStart, numRows)
	if numCols == 0 || numRows == 0 {
		return layer
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > numCols {
		workers = numCols
	}
	var wg sync.WaitGroup
	chunk := (numCols + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= numCols {
			break
		}
		hi := lo + chunk
		if hi > numCols {
			hi = numCols
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for ci := lo; ci < hi; ci++ {
				x := layer.Column(ci)
				for ri := 0; ri < numRows; ri++ {
					y := layer.Row(ri)
					layer.set(ci, ri, sampleCell(h, s, g, t, x, y, stepdown))
				}
			}
		}(lo, hi)
	}
	wg.Wait()
	return layer
}

// sampleCell implements spec §4.6 steps 1-4 for a single sample (x,y).
func sampleCell(h heightmap.HeightMap, s stock.StockMap, g grid.Grid, t tool.Tool, x, y int, stepdown float32) float32 {
	sz := s.At(x, y)
	best := float32(math.Inf(-1))
	for _, o := range t.Offsets {
		xp := int(math.Round(float64(float32(x) + o.X*g.Scale)))
		yp := int(math.Round(float64(float32(y) + o.Y*g.Scale)))
		if !s.InBounds(xp, yp) {
			continue // NaN contribution: this offset does not constrain the cut
		}
		drop := h.At(xp, yp) - s.At(xp, yp)
		drop = clamp(drop, -stepdown, 0)
		zcand := s.At(xp, yp) + drop - o.Z
		if zcand > best {
			best = zcand
		}
	}
	if math.IsInf(float64(best), -1) {
		return float32(math.NaN())
	}
	if stock.EqualWithinULP32(best, sz) {
		return float32(math.NaN())
	}
	return best
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Update folds layer back into s: for every non-sentinel L[x][y] and each
// tool offset, S[x''][y''].z = min(S[x''][y''].z, L[x][y].z + δz) (spec
// §4.6, "Update pass"). It runs single-threaded, after every Pass worker
// has finished, satisfying the read/write barrier spec §5 requires.
func Update(s stock.StockMap, g grid.Grid, layer Layer, t tool.Tool) {
	for ci := 0; ci < layer.NumCols; ci++ {
		x := layer.Column(ci)
		for ri := 0; ri < layer.NumRows; ri++ {
			lz := layer.At(ci, ri)
			if isNaN32(lz) {
				continue
			}
			y := layer.Row(ri)
			for _, o := range t.Offsets {
				xpp := int(math.Round(float64(float32(x) + o.X*g.Scale)))
				ypp := int(math.Round(float64(float32(y) + o.Y*g.Scale)))
				if !s.InBounds(xpp, ypp) {
					continue
				}
				s.CompareAndSet(xpp, ypp, lz+o.Z)
			}
		}
	}
}
