// SPDX-License-Identifier: Unlicense OR MIT

package heightmap

import (
	"bytes"
	"testing"

	"dropcutter.dev/toolpath/gcompute"
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/partition"
)

func flatMesh() geo.Mesh {
	return geo.Mesh{Triangles: []geo.Triangle{
		{V1: geo.Pt3(0, 0, 5), V2: geo.Pt3(10, 0, 5), V3: geo.Pt3(10, 10, 5)},
		{V1: geo.Pt3(0, 0, 5), V2: geo.Pt3(10, 10, 5), V3: geo.Pt3(0, 10, 5)},
	}}
}

func newCPUDev(t *testing.T) gcompute.Device {
	t.Helper()
	dev, err := gcompute.NewDevice(true)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	return dev
}

func TestGenerateFlatPlate(t *testing.T) {
	dev := newCPUDev(t)
	defer dev.Release()

	mesh := flatMesh()
	g := grid.Derive(mesh.Bounds(), 1, 2, 100)
	if err := partition.Run(dev, &g, mesh); err != nil {
		t.Fatalf("partition: %v", err)
	}
	h, err := Generate(dev, g, mesh)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 0; i < h.Segments; i++ {
		for j := 0; j < h.Rows; j++ {
			if got := h.At(i, j); got != 5 {
				t.Fatalf("At(%d,%d) = %v, want 5", i, j, got)
			}
		}
	}
}

func TestGenerateSingleTriangleOutsideIsBottom(t *testing.T) {
	dev := newCPUDev(t)
	defer dev.Release()

	mesh := geo.Mesh{Triangles: []geo.Triangle{
		{V1: geo.Pt3(0, 0, 3), V2: geo.Pt3(1, 0, 3), V3: geo.Pt3(1, 1, 3)},
	}}
	bounds := geo.Bounds{P1: geo.Pt3(0, 0, 0), P2: geo.Pt3(5, 5, 0)}
	g := grid.Derive(bounds, 1, 2, 100)
	if err := partition.Run(dev, &g, mesh); err != nil {
		t.Fatalf("partition: %v", err)
	}
	h, err := Generate(dev, g, mesh)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := h.At(4, 4); got != h.Bottom {
		t.Fatalf("At(4,4) = %v, want bottom sentinel %v", got, h.Bottom)
	}
}

func TestGenerateEmptyMeshAllBottom(t *testing.T) {
	dev := newCPUDev(t)
	defer dev.Release()

	bounds := geo.Bounds{P1: geo.Pt3(0, 0, 0), P2: geo.Pt3(2, 2, 0)}
	g := grid.Derive(bounds, 1, 2, 100)
	h, err := Generate(dev, g, geo.Mesh{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, z := range h.Z {
		if z != h.Bottom {
			t.Fatalf("got %v, want bottom %v", z, h.Bottom)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dev := newCPUDev(t)
	defer dev.Release()

	mesh := flatMesh()
	g := grid.Derive(mesh.Bounds(), 1, 2, 100)
	if err := partition.Run(dev, &g, mesh); err != nil {
		t.Fatalf("partition: %v", err)
	}
	want, err := Generate(dev, g, mesh)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, matched, err := Load(&buf, want.Segments, want.Rows)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !matched {
		t.Fatal("expected shape match")
	}
	if got.Segments != want.Segments || got.Rows != want.Rows || got.Bottom != want.Bottom {
		t.Fatalf("shape mismatch: got %+v, want %+v", got, want)
	}
	for i := range want.Z {
		if got.Z[i] != want.Z[i] {
			t.Fatalf("Z[%d] = %v, want %v", i, got.Z[i], want.Z[i])
		}
	}
}

func TestLoadShapeMismatch(t *testing.T) {
	h := newMap(3, 3, 0)
	var buf bytes.Buffer
	if err := Save(&buf, h); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, matched, err := Load(&buf, 4, 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if matched {
		t.Fatal("expected shape mismatch")
	}
}
