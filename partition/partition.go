// SPDX-License-Identifier: Unlicense OR MIT

// Package partition implements spec §4.3: bucketing triangles into the
// vertical strip columns the rest of the pipeline samples against, on a
// GPU compute device (or its CPU fallback).
package partition

import (
	_ "embed"
	"encoding/binary"
	"math"
	"sync"

	"dropcutter.dev/toolpath/gcompute"
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
)

//go:embed shaders/partition.wgsl
var shaderSource string

// Run partitions mesh's triangles into g's columns, filling each
// grid.Column.Triangles in place with the indices of every triangle whose
// 2D bounding box overlaps that column's box (inclusive of shared edges,
// spec §4.3's edge policy).
func Run(dev gcompute.Device, g *grid.Grid, mesh geo.Mesh) error {
	m := len(mesh.Triangles)
	n := len(g.Columns)
	if m == 0 || n == 0 {
		return nil
	}

	bboxes := make([]byte, m*16)
	for i, t := range mesh.Triangles {
		bb := t.BBox()
		putBBox(bboxes[i*16:], bb)
	}
	colBoxes := make([]byte, n*16)
	for c, col := range g.Columns {
		putBBox(colBoxes[c*16:], col.Box)
	}
	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims[0:4], uint32(m))
	binary.LittleEndian.PutUint32(dims[4:8], uint32(n))

	dimsBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(dims), dims)
	if err != nil {
		return err
	}
	defer dimsBuf.Release()
	triBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(bboxes), bboxes)
	if err != nil {
		return err
	}
	defer triBuf.Release()
	colBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(colBoxes), colBoxes)
	if err != nil {
		return err
	}
	defer colBuf.Release()
	hits := make([]byte, m*n*4)
	hitsBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(hits), hits)
	if err != nil {
		return err
	}
	defer hitsBuf.Release()

	prog, err := dev.NewComputeProgram("partition", shaderSource, "cs_partition", cpuKernel)
	if err != nil {
		return err
	}
	defer prog.Release()

	if err := dev.Dispatch(prog, []gcompute.Buffer{dimsBuf, triBuf, colBuf, hitsBuf}, m, n, 1); err != nil {
		return err
	}
	if err := hitsBuf.Download(hits); err != nil {
		return err
	}

	// Host-side gather (spec §4.3's "host then gathers triangles"): walk
	// the bitmap one triangle row at a time and append each hit to its
	// column, so every column's list is in ascending triangle order.
	for c := range g.Columns {
		g.Columns[c].Triangles = g.Columns[c].Triangles[:0]
	}
	for t := 0; t < m; t++ {
		row := t * n * 4
		for c := 0; c < n; c++ {
			if binary.LittleEndian.Uint32(hits[row+c*4:]) != 0 {
				g.Columns[c].Triangles = append(g.Columns[c].Triangles, t)
			}
		}
	}
	return nil
}

func putBBox(b []byte, bb geo.AABB2) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(bb.P1.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(bb.P1.Y))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(bb.P2.X))
	binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(bb.P2.Y))
}

func getBBox(b []byte) geo.AABB2 {
	return geo.AABB2{
		P1: geo.Pt3(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])), math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])), 0),
		P2: geo.Pt3(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])), math.Float32frombits(binary.LittleEndian.Uint32(b[12:16])), 0),
	}
}

// cpuKernel is the reference implementation the CPU device runs instead of
// dispatching cs_partition to hardware; it performs the identical
// inclusive separating-axis test, parallelized over triangles (spec §9:
// "must return bitwise-identical results").
func cpuKernel(m, n, _ int, buffers []gcompute.Buffer) {
	triBuf := buffers[1].(interface{ Bytes() []byte }).Bytes()
	colBuf := buffers[2].(interface{ Bytes() []byte }).Bytes()
	hitsBuf := buffers[3].(interface{ Bytes() []byte }).Bytes()

	cols := make([]geo.AABB2, n)
	for c := 0; c < n; c++ {
		cols[c] = getBBox(colBuf[c*16:])
	}

	workers := numWorkers(m)
	var wg sync.WaitGroup
	chunk := (m + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= m {
			break
		}
		hi := lo + chunk
		if hi > m {
			hi = m
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for t := lo; t < hi; t++ {
				tb := getBBox(triBuf[t*16:])
				row := t * n * 4
				for c := 0; c < n; c++ {
					if tb.Intersects(cols[c]) {
						binary.LittleEndian.PutUint32(hitsBuf[row+c*4:], 1)
					}
				}
			}
		}(lo, hi)
	}
	wg.Wait()
}
