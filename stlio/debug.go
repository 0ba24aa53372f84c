// SPDX-License-Identifier: Unlicense OR MIT

package stlio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"dropcutter.dev/toolpath/geo"
)

// WriteXYZ writes pts as a debug point cloud: one "x.xxx y.yyy z.zzz\n" line
// per point, 3 decimal places, matching the G-code coordinate formatting
// (spec §4.7.4, §6 debug artifacts tool.xyz/pcl.xyz/layerN.xyz).
func WriteXYZ(w io.Writer, pts []geo.Point3) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		if _, err := fmt.Fprintf(bw, "%.3f %.3f %.3f\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeHeightMapSTL writes a height map as a binary STL surface: two
// triangles per grid cell, for visual inspection (spec §6 heightmap.stl
// debug artifact). at(i,j) returns the sample point at column i, row j.
func EncodeHeightMapSTL(w io.Writer, cols, rows int, at func(i, j int) geo.Point3) error {
	bw := bufio.NewWriter(w)
	header := make([]byte, headerLen)
	copy(header, []byte("dropcutter heightmap debug export"))
	if _, err := bw.Write(header); err != nil {
		return err
	}

	count := uint32(0)
	if cols > 1 && rows > 1 {
		count = uint32(2 * (cols - 1) * (rows - 1))
	}
	if err := binary.Write(bw, binary.LittleEndian, count); err != nil {
		return err
	}

	writeTri := func(a, b, c geo.Point3) error {
		var rec [triangleRecLen]byte
		// Normal left zero; consumers of this debug artifact recompute it.
		writePointInto(rec[12:24], a)
		writePointInto(rec[24:36], b)
		writePointInto(rec[36:48], c)
		_, err := bw.Write(rec[:])
		return err
	}

	for i := 0; i < cols-1; i++ {
		for j := 0; j < rows-1; j++ {
			p00, p10 := at(i, j), at(i+1, j)
			p01, p11 := at(i, j+1), at(i+1, j+1)
			if err := writeTri(p00, p10, p11); err != nil {
				return err
			}
			if err := writeTri(p00, p11, p01); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writePointInto(b []byte, p geo.Point3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(p.Y))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(p.Z))
}
