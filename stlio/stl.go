// SPDX-License-Identifier: Unlicense OR MIT

// Package stlio decodes binary STL meshes and writes the pipeline's debug
// point-cloud and height-map artifacts (spec §6).
package stlio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"dropcutter.dev/toolpath/geo"
)

const (
	headerLen      = 80
	triangleRecLen = 50 // 12 little-endian float32 + uint16 attribute byte count
)

// Decode reads a binary STL stream into a Mesh. It returns a *FormatError
// wrapping the detail for any truncated or malformed input (spec §7).
func Decode(r io.Reader) (geo.Mesh, error) {
	br := bufio.NewReader(r)

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return geo.Mesh{}, &FormatError{Detail: fmt.Sprintf("short header: %v", err)}
	}

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return geo.Mesh{}, &FormatError{Detail: fmt.Sprintf("short triangle count: %v", err)}
	}

	tris := make([]geo.Triangle, 0, count)
	rec := make([]byte, triangleRecLen)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return geo.Mesh{}, &FormatError{Detail: fmt.Sprintf("truncated triangle record %d: %v", i, err)}
		}
		// rec[0:12] is the facet normal; the pipeline recomputes geometry
		// from vertices and never trusts the stored normal.
		v1 := readPoint(rec[12:24])
		v2 := readPoint(rec[24:36])
		v3 := readPoint(rec[36:48])
		tris = append(tris, geo.Triangle{V1: v1, V2: v2, V3: v3})
	}
	return geo.Mesh{Triangles: tris}, nil
}

func readPoint(b []byte) geo.Point3 {
	return geo.Pt3(
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	)
}

// FormatError reports a malformed STL input (spec §7 Format errors).
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "stlio: malformed STL: " + e.Detail
}
