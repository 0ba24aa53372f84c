// SPDX-License-Identifier: Unlicense OR MIT

package heightmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const magic = "DCHM"

// Save writes h to w in a stable binary form: a 4-byte magic, segments and
// rows as uint32, bottom and the z array as little-endian float32 (spec
// §4.8, "fixed-endian, fixed-precision").
func Save(w io.Writer, h HeightMap) error {
	header := make([]byte, 4+4+4+4)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(h.Segments))
	binary.LittleEndian.PutUint32(header[8:12], uint32(h.Rows))
	binary.LittleEndian.PutUint32(header[12:16], math.Float32bits(h.Bottom))
	if _, err := w.Write(header); err != nil {
		return err
	}
	body := make([]byte, len(h.Z)*4)
	for i, z := range h.Z {
		binary.LittleEndian.PutUint32(body[i*4:], math.Float32bits(z))
	}
	_, err := w.Write(body)
	return err
}

// Load reads a HeightMap previously written by Save. matched reports
// whether its (segments, rows) equal wantSegments/wantRows; when it does
// not, the caller should log a cache-mismatch notice and recompute rather
// than treat this as fatal (spec §7, "Cache mismatch").
func Load(r io.Reader, wantSegments, wantRows int) (h HeightMap, matched bool, err error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return HeightMap{}, false, fmt.Errorf("heightmap: read header: %w", err)
	}
	if string(header[:4]) != magic {
		return HeightMap{}, false, fmt.Errorf("heightmap: bad magic %q", header[:4])
	}
	segments := int(binary.LittleEndian.Uint32(header[4:8]))
	rows := int(binary.LittleEndian.Uint32(header[8:12]))
	bottom := math.Float32frombits(binary.LittleEndian.Uint32(header[12:16]))

	body := make([]byte, segments*rows*4)
	if _, err := io.ReadFull(r, body); err != nil {
		return HeightMap{}, false, fmt.Errorf("heightmap: read body: %w", err)
	}
	z := make([]float32, segments*rows)
	for i := range z {
		z[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	h = HeightMap{Segments: segments, Rows: rows, Bottom: bottom, Z: z}
	matched = segments == wantSegments && rows == wantRows
	return h, matched, nil
}
