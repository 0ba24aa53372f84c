// SPDX-License-Identifier: Unlicense OR MIT

package grid

import (
	"testing"

	"dropcutter.dev/toolpath/geo"
)

func TestStepSamplesExact(t *testing.T) {
	// stepover=100, diameter=1mm, resolution=0.1mm: columns spaced at
	// exactly 10 samples (spec §8 boundary behavior).
	g := Derive(geo.Bounds{P1: geo.Pt3(0, 0, 0), P2: geo.Pt3(10, 10, 0)}, 0.1, 1, 100)
	if k := g.StepSamples(1, 100); k != 10 {
		t.Fatalf("expected step of 10 samples, got %d", k)
	}
}

func TestDeriveColumnCount(t *testing.T) {
	g := Derive(geo.Bounds{P1: geo.Pt3(0, 0, 0), P2: geo.Pt3(10, 10, 0)}, 0.5, 2, 100)
	if g.Segments != 21 {
		t.Fatalf("expected 21 columns over a 10mm span at 0.5mm resolution, got %d", g.Segments)
	}
	if len(g.Columns) != g.Segments {
		t.Fatalf("column slice length %d != Segments %d", len(g.Columns), g.Segments)
	}
}

func TestColumnBoxOverlap(t *testing.T) {
	g := Derive(geo.Bounds{P1: geo.Pt3(0, 0, 0), P2: geo.Pt3(10, 10, 0)}, 0.5, 2, 50)
	if len(g.Columns) < 2 {
		t.Fatal("expected at least two columns")
	}
	a, b := g.Columns[0].Box, g.Columns[1].Box
	if !a.Intersects(b) {
		t.Fatal("adjacent column boxes (one sample apart, 2*radius wide) must overlap")
	}
}
