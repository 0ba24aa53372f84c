// SPDX-License-Identifier: Unlicense OR MIT

// Package geo implements the float32 3D geometry primitives the toolpath
// pipeline is built on: points, triangles, 2D bounding boxes and meshes.
package geo

import "math"

// Point3 is a point or vector in 3-space.
type Point3 struct {
	X, Y, Z float32
}

// Pt3 is a convenience constructor.
func Pt3(x, y, z float32) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns p+q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the vector p-q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Mul returns p scaled by s.
func (p Point3) Mul(s float32) Point3 {
	return Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Dist2D returns the 2D (x,y) Euclidean distance between p and q.
func (p Point3) Dist2D(q Point3) float32 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// AABB2 is a 2D axis-aligned bounding box.
type AABB2 struct {
	P1, P2 Point3 // P1 is the componentwise min, P2 the componentwise max.
}

// Intersects reports whether a and b overlap, inclusive of shared edges.
//
// The inclusive test is deliberate: spec §4.3's edge policy requires a
// triangle exactly coincident with a column edge to land in both abutting
// columns, so seams never lose an intersection.
func (a AABB2) Intersects(b AABB2) bool {
	return a.P1.X <= b.P2.X && a.P2.X >= b.P1.X && a.P1.Y <= b.P2.Y && a.P2.Y >= b.P1.Y
}

// Contains2D reports whether p's (x,y) lies within a, inclusive.
func (a AABB2) Contains2D(p Point3) bool {
	return p.X >= a.P1.X && p.X <= a.P2.X && p.Y >= a.P1.Y && p.Y <= a.P2.Y
}

// Bounds is the 3D bounding box of a Mesh.
type Bounds struct {
	P1, P2 Point3
}

// AABB2 projects the bounds onto the xy-plane.
func (b Bounds) AABB2() AABB2 {
	return AABB2{P1: b.P1, P2: b.P2}
}
