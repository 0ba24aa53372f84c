// SPDX-License-Identifier: Unlicense OR MIT

package pipeline

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/tool"
)

func encodeSTL(t *testing.T, tris []geo.Triangle) string {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	writePoint := func(p geo.Point3) {
		var b [12]byte
		binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(p.Z))
		buf.Write(b[:])
	}
	for _, tr := range tris {
		writePoint(geo.Pt3(0, 0, 1))
		writePoint(tr.V1)
		writePoint(tr.V2)
		writePoint(tr.V3)
		buf.Write(make([]byte, 2))
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.stl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write stl: %v", err)
	}
	return path
}

func flatPlate() []geo.Triangle {
	return []geo.Triangle{
		{V1: geo.Pt3(0, 0, 0), V2: geo.Pt3(10, 0, 0), V3: geo.Pt3(10, 10, 0)},
		{V1: geo.Pt3(0, 0, 0), V2: geo.Pt3(10, 10, 0), V3: geo.Pt3(0, 10, 0)},
	}
}

func TestRunFlatPlateProducesGCode(t *testing.T) {
	stl := encodeSTL(t, flatPlate())
	out := filepath.Join(t.TempDir(), "out.nc")

	cfg := Config{
		Input:       stl,
		Output:      out,
		Diameter:    2,
		Tool:        tool.Endmill,
		StepoverPct: 100,
		Resolution:  1,
		Stepdown:    1,
	}
	if err := Run(cfg, noProgress{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "G1 Z0.000 F300\n") {
		t.Fatalf("missing safe-height opening move, got:\n%s", text)
	}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "G0") && !strings.HasPrefix(line, "G1") {
			t.Fatalf("unexpected non-linear-move line: %q", line)
		}
	}
}

func TestRunInvalidConfigFailsFast(t *testing.T) {
	cfg := Config{Input: "x.stl", Output: "y.nc", Diameter: 2, Resolution: 5}
	if err := Run(cfg, noProgress{}); err == nil {
		t.Fatal("expected a validation error for out-of-range resolution")
	}
}

func TestRunVbitRequiresAngle(t *testing.T) {
	cfg := Config{Input: "x.stl", Output: "y.nc", Diameter: 2, Resolution: 0.1, StepoverPct: 100, Tool: tool.Vbit}
	if err := Run(cfg, noProgress{}); err == nil {
		t.Fatal("expected a validation error for vbit with no angle")
	}
}

func TestCacheMismatchLogsNoticeAndRecomputes(t *testing.T) {
	stl := encodeSTL(t, flatPlate())
	dir := t.TempDir()
	out := filepath.Join(dir, "out.nc")
	hmPath := filepath.Join(dir, "height.map")

	// Write a height-map cache with a shape that cannot match the run
	// below (0 segments/rows), forcing the mismatch path.
	if err := os.WriteFile(hmPath, append([]byte("DCHM"), make([]byte, 12)...), 0o644); err != nil {
		t.Fatalf("write stub cache: %v", err)
	}

	var notices bytes.Buffer
	cfg := Config{
		Input:         stl,
		Output:        out,
		Diameter:      2,
		Tool:          tool.Endmill,
		StepoverPct:   100,
		Resolution:    1,
		Stepdown:      1,
		HeightMapPath: hmPath,
	}
	if err := Run(cfg, NewStderrProgress(&notices)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(notices.String(), "shape mismatch") {
		t.Fatalf("expected a cache-mismatch notice, got:\n%s", notices.String())
	}
	if _, err := os.ReadFile(out); err != nil {
		t.Fatalf("expected output despite cache mismatch: %v", err)
	}
}
