// SPDX-License-Identifier: Unlicense OR MIT

package pathplan

import "dropcutter.dev/toolpath/geo"

// sequenceIslands orders islands by greedy nearest-neighbor from start,
// keyed by each island's first segment's first point, tie-breaking by
// lower island index (spec §4.7 step 2). The remaining-set/best-index
// shape follows the same greedy-NN pattern as orderPlacements in the
// gcode generator this package is modeled on (see DESIGN.md); chosen
// entries are removed in order-preserving fashion, which keeps the
// lower-index tie-break intact.
func sequenceIslands(islands []Island, start geo.Point3) []Island {
	remaining := make([]int, len(islands))
	for i := range remaining {
		remaining[i] = i
	}
	ordered := make([]Island, 0, len(islands))
	cur := start
	for len(remaining) > 0 {
		best := 0
		bestDist := anchorOf(islands[remaining[0]]).Dist2D(cur)
		for k := 1; k < len(remaining); k++ {
			d := anchorOf(islands[remaining[k]]).Dist2D(cur)
			if d < bestDist {
				best, bestDist = k, d
			}
		}
		idx := remaining[best]
		ordered = append(ordered, islands[idx])
		cur = anchorOf(islands[idx])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

func anchorOf(isl Island) geo.Point3 {
	return isl.Segments[0].First()
}

// sequenceSegments orders an island's segments by nearest endpoint from
// cur, reversing a segment when its far endpoint is closer (spec §4.7
// step 3). It returns the sequenced segments and the cutter's resulting
// position.
func sequenceSegments(segments []Segment, cur geo.Point3) ([]Segment, geo.Point3) {
	remaining := make([]Segment, len(segments))
	copy(remaining, segments)
	ordered := make([]Segment, 0, len(segments))
	for len(remaining) > 0 {
		best := 0
		bestSeg, bestDist := orient(remaining[0], cur)
		for k := 1; k < len(remaining); k++ {
			seg, d := orient(remaining[k], cur)
			if d < bestDist {
				best, bestSeg, bestDist = k, seg, d
			}
		}
		ordered = append(ordered, bestSeg)
		cur = bestSeg.Last()
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered, cur
}

// orient returns seg (or its reverse, whichever starts nearer cur) along
// with the distance from cur to its chosen start.
func orient(seg Segment, cur geo.Point3) (Segment, float32) {
	dFirst := seg.First().Dist2D(cur)
	dLast := seg.Last().Dist2D(cur)
	if dLast < dFirst {
		return seg.Reversed(), dLast
	}
	return seg, dFirst
}
