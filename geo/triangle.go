// SPDX-License-Identifier: Unlicense OR MIT

package geo

import (
	"runtime"
	"sync"
)

// Triangle is an oriented facet of the input mesh. V1, V2, V3 are its
// vertices. Pad is not read anywhere: partition and heightmap pack
// triangles into their GPU storage buffers field by field (heightmap pads
// each vertex to 16 bytes there), never by copying this struct.
type Triangle struct {
	V1, V2, V3 Point3
	Pad        float32
}

// BBox returns the 2D bounding box of t's vertices.
func (t Triangle) BBox() AABB2 {
	minX, maxX := minmax3(t.V1.X, t.V2.X, t.V3.X)
	minY, maxY := minmax3(t.V1.Y, t.V2.Y, t.V3.Y)
	return AABB2{
		P1: Point3{X: minX, Y: minY},
		P2: Point3{X: maxX, Y: maxY},
	}
}

func minmax3(a, b, c float32) (min, max float32) {
	min, max = a, a
	for _, v := range [2]float32{b, c} {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Intersect computes the vertical-ray / triangle intersection used by the
// drop-cutter height-map kernel (spec §4.4): express (x,y) in the
// triangle's barycentric coordinates via signed-area ratios, and report the
// hit z if all three barycentric weights are non-negative. ok is false for
// a miss or a degenerate (zero projected area) triangle.
func (t Triangle) Intersect(x, y float32) (z float32, ok bool) {
	area := edgeFn(t.V1, t.V2, t.V3)
	if area == 0 {
		return 0, false
	}
	p := Point3{X: x, Y: y}
	l1 := edgeFn(t.V2, t.V3, p) / area
	l2 := edgeFn(t.V3, t.V1, p) / area
	l3 := edgeFn(t.V1, t.V2, p) / area
	if l1 < 0 || l2 < 0 || l3 < 0 {
		return 0, false
	}
	return l1*t.V1.Z + l2*t.V2.Z + l3*t.V3.Z, true
}

// edgeFn is twice the signed area of (a, b, c) projected onto xy.
func edgeFn(a, b, c Point3) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Mesh is an ordered sequence of triangles.
type Mesh struct {
	Triangles []Triangle
}

// Bounds computes the componentwise min/max over every vertex of every
// triangle in m. It is recomputed after any mutating transform, never cached
// across one (spec §4.1).
func (m Mesh) Bounds() Bounds {
	if len(m.Triangles) == 0 {
		return Bounds{}
	}
	min := m.Triangles[0].V1
	max := min
	grow := func(p Point3) {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	for _, t := range m.Triangles {
		grow(t.V1)
		grow(t.V2)
		grow(t.V3)
	}
	return Bounds{P1: min, P2: max}
}

// Normalize translates m so that min-x = min-y = 0 and max-z = 0 (the stock
// top coincides with the world plane z=0), per spec §4.1. The translation is
// applied by a parallel map over triangles, mirroring the data-parallel
// shape of partition/heightmap's own worker split.
func (m *Mesh) Normalize() {
	b := m.Bounds()
	offset := Point3{X: -b.P1.X, Y: -b.P1.Y, Z: -b.P2.Z}
	parallelMap(len(m.Triangles), func(i int) {
		t := &m.Triangles[i]
		t.V1 = t.V1.Add(offset)
		t.V2 = t.V2.Add(offset)
		t.V3 = t.V3.Add(offset)
	})
}

// parallelMap runs fn(i) for i in [0,n) across runtime.GOMAXPROCS(0) workers
// and waits for all of them to finish.
func parallelMap(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
