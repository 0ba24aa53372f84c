// SPDX-License-Identifier: Unlicense OR MIT

package geo

import "testing"

func flatSquare() Mesh {
	// Two triangles forming a 10x10mm square at z=0.
	return Mesh{Triangles: []Triangle{
		{V1: Pt3(0, 0, 0), V2: Pt3(10, 0, 0), V3: Pt3(10, 10, 0)},
		{V1: Pt3(0, 0, 0), V2: Pt3(10, 10, 0), V3: Pt3(0, 10, 0)},
	}}
}

func TestBounds(t *testing.T) {
	b := flatSquare().Bounds()
	if b.P1 != (Point3{0, 0, 0}) || b.P2 != (Point3{10, 10, 0}) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestNormalizeAlreadyNormal(t *testing.T) {
	m := flatSquare()
	m.Normalize()
	b := m.Bounds()
	if b.P1.X != 0 || b.P1.Y != 0 || b.P2.Z != 0 {
		t.Fatalf("normalize invariant violated: %+v", b)
	}
}

func TestNormalizeTranslates(t *testing.T) {
	m := Mesh{Triangles: []Triangle{
		{V1: Pt3(5, 5, -5), V2: Pt3(15, 5, -5), V3: Pt3(15, 15, 5)},
	}}
	m.Normalize()
	b := m.Bounds()
	if b.P1.X != 0 || b.P1.Y != 0 || b.P2.Z != 0 {
		t.Fatalf("normalize invariant violated: %+v", b)
	}
}

func TestTriangleIntersect(t *testing.T) {
	tri := Triangle{V1: Pt3(0, 0, 1), V2: Pt3(10, 0, 1), V3: Pt3(0, 10, 1)}
	if z, ok := tri.Intersect(1, 1); !ok || z != 1 {
		t.Fatalf("expected hit at z=1, got z=%v ok=%v", z, ok)
	}
	if _, ok := tri.Intersect(-1, -1); ok {
		t.Fatal("expected miss outside triangle")
	}
}

func TestTriangleIntersectDegenerate(t *testing.T) {
	tri := Triangle{V1: Pt3(0, 0, 0), V2: Pt3(1, 0, 0), V3: Pt3(2, 0, 0)}
	if _, ok := tri.Intersect(1, 0); ok {
		t.Fatal("degenerate triangle must never report a hit")
	}
}

func TestAABB2IntersectsInclusiveEdge(t *testing.T) {
	a := AABB2{P1: Pt3(0, 0, 0), P2: Pt3(1, 1, 0)}
	b := AABB2{P1: Pt3(1, 0, 0), P2: Pt3(2, 1, 0)}
	if !a.Intersects(b) {
		t.Fatal("edge-coincident boxes must be considered intersecting")
	}
}

func TestTriangleBBox(t *testing.T) {
	tri := Triangle{V1: Pt3(1, -2, 0), V2: Pt3(3, 4, 0), V3: Pt3(-1, 0, 0)}
	bb := tri.BBox()
	if bb.P1 != (Point3{-1, -2, 0}) || bb.P2 != (Point3{3, 4, 0}) {
		t.Fatalf("unexpected bbox: %+v", bb)
	}
}
