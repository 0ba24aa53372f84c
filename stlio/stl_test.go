// SPDX-License-Identifier: Unlicense OR MIT

package stlio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"dropcutter.dev/toolpath/geo"
)

func encodeSTL(tris []geo.Triangle) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, headerLen))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		var rec [triangleRecLen]byte
		writePointInto(rec[0:12], geo.Pt3(0, 0, 1)) // normal, unused by Decode
		writePointInto(rec[12:24], t.V1)
		writePointInto(rec[24:36], t.V2)
		writePointInto(rec[36:48], t.V3)
		buf.Write(rec[:])
	}
	return buf.Bytes()
}

func TestDecodeRoundTrip(t *testing.T) {
	want := []geo.Triangle{
		{V1: geo.Pt3(0, 0, 0), V2: geo.Pt3(10, 0, 0), V3: geo.Pt3(10, 10, 0)},
		{V1: geo.Pt3(0, 0, 0), V2: geo.Pt3(10, 10, 0), V3: geo.Pt3(0, 10, 0)},
	}
	mesh, err := Decode(bytes.NewReader(encodeSTL(want)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mesh.Triangles) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(mesh.Triangles), len(want))
	}
	for i, tr := range mesh.Triangles {
		if tr.V1 != want[i].V1 || tr.V2 != want[i].V2 || tr.V3 != want[i].V3 {
			t.Fatalf("triangle %d mismatch: got %+v want %+v", i, tr, want[i])
		}
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("expected a FormatError for a truncated header")
	} else if _, ok := err.(*FormatError); !ok {
		t.Fatalf("expected *FormatError, got %T", err)
	}
}

func TestDecodeTruncatedRecord(t *testing.T) {
	full := encodeSTL([]geo.Triangle{{V1: geo.Pt3(0, 0, 0), V2: geo.Pt3(1, 0, 0), V3: geo.Pt3(0, 1, 0)}})
	truncated := full[:len(full)-10]
	if _, err := Decode(bytes.NewReader(truncated)); err == nil {
		t.Fatal("expected a FormatError for a truncated triangle record")
	}
}

func TestEncodeHeightMapSTLTriangleCount(t *testing.T) {
	var buf bytes.Buffer
	cols, rows := 3, 2
	err := EncodeHeightMapSTL(&buf, cols, rows, func(i, j int) geo.Point3 {
		return geo.Pt3(float32(i), float32(j), 0)
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := buf.Bytes()
	count := binary.LittleEndian.Uint32(data[headerLen : headerLen+4])
	if want := uint32(2 * (cols - 1) * (rows - 1)); count != want {
		t.Fatalf("got %d triangles, want %d", count, want)
	}
}

func TestWriteXYZFormatting(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXYZ(&buf, []geo.Point3{geo.Pt3(1, 2, float32(math.Sqrt(2)))}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "1.000 2.000 1.414\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
