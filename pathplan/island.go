// SPDX-License-Identifier: Unlicense OR MIT

// Package pathplan implements path emission (spec §4.7): grouping a
// Layer's cut points into islands and segments, sequencing them, and
// writing the resulting G-code.
package pathplan

import (
	"math"

	"golang.org/x/exp/slices"

	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/offset"
)

// cutPoint is one non-sentinel sample of a Layer, in raw grid coordinates.
type cutPoint struct {
	Col, Row int
	P        geo.Point3
}

// Segment is a maximal run of same-column, row-adjacent cut points,
// ordered by row (spec §3, "Segment").
type Segment struct {
	Col    int
	Points []geo.Point3 // ordered by ascending row
}

// First and Last return the segment's two endpoints; for a single-point
// segment they're the same point.
func (s Segment) First() geo.Point3 { return s.Points[0] }
func (s Segment) Last() geo.Point3  { return s.Points[len(s.Points)-1] }

// Reversed returns s with its points in the opposite order.
func (s Segment) Reversed() Segment {
	out := make([]geo.Point3, len(s.Points))
	for i, p := range s.Points {
		out[len(out)-1-i] = p
	}
	return Segment{Col: s.Col, Points: out}
}

// Island is a set of segments reachable from one another without
// retracting (spec §3, "Island").
type Island struct {
	Segments []Segment
}

// Islands groups layer's non-sentinel points into islands via flood-fill
// connectivity in sample-grid coordinates, with neighborhood radius
// ceil(diameter·scale) (spec §4.7 step 1), then partitions each island
// into column segments (spec §3).
func Islands(layer offset.Layer, g grid.Grid, diameter float32) []Island {
	points := collectPoints(layer, g)
	if len(points) == 0 {
		return nil
	}
	radius := int(math.Ceil(float64(diameter * g.Scale)))
	if radius < 1 {
		radius = 1
	}
	groups := floodFill(points, radius)

	islands := make([]Island, len(groups))
	for i, group := range groups {
		islands[i] = Island{Segments: segmentsOf(group)}
	}
	return islands
}

func collectPoints(layer offset.Layer, g grid.Grid) []cutPoint {
	var out []cutPoint
	for ci := 0; ci < layer.NumCols; ci++ {
		col := layer.Column(ci)
		for ri := 0; ri < layer.NumRows; ri++ {
			z := layer.At(ci, ri)
			if z != z { // NaN: nothing to cut here
				continue
			}
			row := layer.Row(ri)
			out = append(out, cutPoint{Col: col, Row: row, P: geo.Pt3(float32(col)/g.Scale+g.Bounds.P1.X, float32(row)/g.Scale+g.Bounds.P1.Y, z)})
		}
	}
	return out
}

// floodFill groups points into connected components: two points are
// neighbors if both their column and row distance are within radius
// (spec §4.7 step 1, "seed-growing BFS per connected component").
func floodFill(points []cutPoint, radius int) [][]cutPoint {
	index := make(map[[2]int]int, len(points))
	for i, p := range points {
		index[[2]int{p.Col, p.Row}] = i
	}
	visited := make([]bool, len(points))
	var groups [][]cutPoint

	for start := range points {
		if visited[start] {
			continue
		}
		queue := []int{start}
		visited[start] = true
		var group []cutPoint
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			group = append(group, points[i])
			p := points[i]
			for dc := -radius; dc <= radius; dc++ {
				for dr := -radius; dr <= radius; dr++ {
					if dc == 0 && dr == 0 {
						continue
					}
					j, ok := index[[2]int{p.Col + dc, p.Row + dr}]
					if !ok || visited[j] {
						continue
					}
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// segmentsOf partitions one island's points into maximal same-column,
// row-adjacent runs (spec §3, "Segment"), ordered by row within each run.
// Columns are visited in ascending order so results are deterministic
// regardless of map iteration order.
func segmentsOf(group []cutPoint) []Segment {
	byCol := make(map[int][]cutPoint)
	var cols []int
	for _, p := range group {
		if _, ok := byCol[p.Col]; !ok {
			cols = append(cols, p.Col)
		}
		byCol[p.Col] = append(byCol[p.Col], p)
	}
	slices.Sort(cols)

	var segments []Segment
	for _, col := range cols {
		pts := byCol[col]
		slices.SortFunc(pts, func(a, b cutPoint) bool { return a.Row < b.Row })
		var run []geo.Point3
		var lastRow int
		for i, p := range pts {
			if i > 0 && p.Row != lastRow+1 {
				segments = append(segments, Segment{Col: col, Points: run})
				run = nil
			}
			run = append(run, p.P)
			lastRow = p.Row
		}
		if len(run) > 0 {
			segments = append(segments, Segment{Col: col, Points: run})
		}
	}
	return segments
}
