// SPDX-License-Identifier: Unlicense OR MIT

package stock

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const magic = "DCSM"

// Save writes s to w in a stable binary form like heightmap.Save's (spec
// §4.8): the 4-byte magic "DCSM", segments and rows as uint32, then the z
// array as little-endian float32. Unlike heightmap.Save there is no
// bottom field.
func Save(w io.Writer, s StockMap) error {
	header := make([]byte, 4+4+4)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(s.Segments))
	binary.LittleEndian.PutUint32(header[8:12], uint32(s.Rows))
	if _, err := w.Write(header); err != nil {
		return err
	}
	body := make([]byte, len(s.Z)*4)
	for i, z := range s.Z {
		binary.LittleEndian.PutUint32(body[i*4:], math.Float32bits(z))
	}
	_, err := w.Write(body)
	return err
}

// Load reads a StockMap previously written by Save. matched reports
// whether its (segments, rows) equal wantSegments/wantRows; on a mismatch
// the caller logs a cache-mismatch notice and recomputes rather than
// treating this as fatal (spec §7).
func Load(r io.Reader, wantSegments, wantRows int) (s StockMap, matched bool, err error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return StockMap{}, false, fmt.Errorf("stock: read header: %w", err)
	}
	if string(header[:4]) != magic {
		return StockMap{}, false, fmt.Errorf("stock: bad magic %q", header[:4])
	}
	segments := int(binary.LittleEndian.Uint32(header[4:8]))
	rows := int(binary.LittleEndian.Uint32(header[8:12]))

	body := make([]byte, segments*rows*4)
	if _, err := io.ReadFull(r, body); err != nil {
		return StockMap{}, false, fmt.Errorf("stock: read body: %w", err)
	}
	z := make([]float32, segments*rows)
	for i := range z {
		z[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	s = StockMap{Segments: segments, Rows: rows, Z: z}
	matched = segments == wantSegments && rows == wantRows
	return s, matched, nil
}
