// SPDX-License-Identifier: Unlicense OR MIT

package tool

import "testing"

func TestNewEndmillOffsetsAreFlat(t *testing.T) {
	tl := New(Endmill, 4, 2, 0)
	if len(tl.Offsets) == 0 {
		t.Fatal("expected at least one offset")
	}
	for _, o := range tl.Offsets {
		if o.Z != 0 {
			t.Fatalf("endmill offset has non-zero Z: %+v", o)
		}
		if o.X*o.X+o.Y*o.Y > tl.Radius*tl.Radius+1e-4 {
			t.Fatalf("offset outside bounding radius: %+v radius=%v", o, tl.Radius)
		}
	}
	if tl.Radius != 2 {
		t.Fatalf("radius = %v, want 2", tl.Radius)
	}
}

func TestNewBallOffsetsDipBelowTip(t *testing.T) {
	tl := New(Ball, 4, 2, 0)
	sawCenter := false
	for _, o := range tl.Offsets {
		if o.X == 0 && o.Y == 0 {
			sawCenter = true
			if o.Z != 0 {
				t.Fatalf("ball tip center offset should be Z=0, got %v", o.Z)
			}
			continue
		}
		if o.Z > 0 {
			t.Fatalf("ball offset away from center must dip below tip: %+v", o)
		}
	}
	if !sawCenter {
		t.Fatal("expected an offset at the tool center")
	}
}

func TestNewVbitOffsetsScaleWithAngle(t *testing.T) {
	narrow := New(Vbit, 4, 2, 30)
	wide := New(Vbit, 4, 2, 120)

	deepest := func(tl Tool) float32 {
		var min float32
		for _, o := range tl.Offsets {
			if o.Z < min {
				min = o.Z
			}
		}
		return min
	}
	if deepest(wide) >= deepest(narrow) {
		t.Fatalf("wider included angle should reach deeper at the centre: narrow=%v wide=%v", deepest(narrow), deepest(wide))
	}
}

func TestNewOffsetsAreLexicographicallySorted(t *testing.T) {
	tl := New(Ball, 6, 4, 0)
	for i := 1; i < len(tl.Offsets); i++ {
		a, b := tl.Offsets[i-1], tl.Offsets[i]
		if a.X > b.X || (a.X == b.X && a.Y > b.Y) {
			t.Fatalf("offsets not lexicographically sorted at index %d: %+v then %+v", i, a, b)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{Endmill, "endmill"},
		{Ball, "ball"},
		{Vbit, "vbit"},
		{Kind(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}

func TestXYZPointsMatchesOffsetCount(t *testing.T) {
	tl := New(Ball, 4, 2, 0)
	pts := tl.XYZPoints()
	if len(pts) != len(tl.Offsets) {
		t.Fatalf("len(XYZPoints()) = %d, want %d", len(pts), len(tl.Offsets))
	}
	for i, o := range tl.Offsets {
		if pts[i].X != o.X || pts[i].Y != o.Y || pts[i].Z != o.Z {
			t.Fatalf("point %d = %+v, want offset %+v", i, pts[i], o)
		}
	}
}
