// SPDX-License-Identifier: Unlicense OR MIT

package heightmap

import (
	_ "embed"
	"encoding/binary"
	"math"
	"sync"

	"dropcutter.dev/toolpath/gcompute"
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
)

//go:embed shaders/heightmap.wgsl
var shaderSource string

// Generate computes the height map for g against mesh's triangles, using
// the column buckets partition.Run already filled in (spec §4.4).
func Generate(dev gcompute.Device, g grid.Grid, mesh geo.Mesh) (HeightMap, error) {
	bottom := g.Bounds.P1.Z
	h := newMap(g.Segments, g.Rows, bottom)
	pointCount := g.Segments * g.Rows
	if pointCount == 0 {
		return h, nil
	}

	points := make([]byte, pointCount*8)
	for i := 0; i < g.Segments; i++ {
		for j := 0; j < g.Rows; j++ {
			p := g.Point(i, j)
			off := (i*g.Rows + j) * 8
			binary.LittleEndian.PutUint32(points[off:], math.Float32bits(p.X))
			binary.LittleEndian.PutUint32(points[off+4:], math.Float32bits(p.Y))
		}
	}

	tris := make([]byte, len(mesh.Triangles)*48)
	for t, tr := range mesh.Triangles {
		putVertex(tris[t*48:], tr.V1)
		putVertex(tris[t*48+16:], tr.V2)
		putVertex(tris[t*48+32:], tr.V3)
	}

	start := make([]uint32, pointCount+1)
	var list []uint32
	for i, col := range g.Columns {
		for j := 0; j < g.Rows; j++ {
			p := i*g.Rows + j
			start[p] = uint32(len(list))
			list = append(list, toU32(col.Triangles)...)
		}
	}
	start[pointCount] = uint32(len(list))

	startBytes := make([]byte, len(start)*4)
	for i, v := range start {
		binary.LittleEndian.PutUint32(startBytes[i*4:], v)
	}
	listBytes := make([]byte, len(list)*4)
	for i, v := range list {
		binary.LittleEndian.PutUint32(listBytes[i*4:], v)
	}

	dims := make([]byte, 12)
	binary.LittleEndian.PutUint32(dims[0:4], uint32(pointCount))
	binary.LittleEndian.PutUint32(dims[4:8], uint32(len(mesh.Triangles)))
	binary.LittleEndian.PutUint32(dims[8:12], math.Float32bits(bottom))

	dimsBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(dims), dims)
	if err != nil {
		return h, err
	}
	defer dimsBuf.Release()
	pointsBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(points), points)
	if err != nil {
		return h, err
	}
	defer pointsBuf.Release()
	trisBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(tris), tris)
	if err != nil {
		return h, err
	}
	defer trisBuf.Release()
	startBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(startBytes), startBytes)
	if err != nil {
		return h, err
	}
	defer startBuf.Release()
	listBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, max1(len(listBytes)), listBytes)
	if err != nil {
		return h, err
	}
	defer listBuf.Release()
	outBytes := make([]byte, pointCount*4)
	outBuf, err := dev.NewBuffer(gcompute.BufferUsageStorage, len(outBytes), outBytes)
	if err != nil {
		return h, err
	}
	defer outBuf.Release()

	prog, err := dev.NewComputeProgram("heightmap", shaderSource, "cs_heightmap", cpuKernel)
	if err != nil {
		return h, err
	}
	defer prog.Release()

	buffers := []gcompute.Buffer{dimsBuf, pointsBuf, trisBuf, startBuf, listBuf, outBuf}
	// A single dispatch covers every point; the y dimension carries the
	// count of ten-column chunks (spec §4.4). Neither cs_heightmap nor
	// cpuKernel reads it: each invocation folds one whole point, so the
	// grouping does not affect the result.
	chunks := (g.Segments + 9) / 10
	if chunks < 1 {
		chunks = 1
	}
	if err := dev.Dispatch(prog, buffers, pointCount, chunks, 1); err != nil {
		return h, err
	}
	if err := outBuf.Download(outBytes); err != nil {
		return h, err
	}
	for i := 0; i < pointCount; i++ {
		h.Z[i] = math.Float32frombits(binary.LittleEndian.Uint32(outBytes[i*4:]))
	}
	return h, nil
}

func max1(n int) int {
	if n == 0 {
		return 4
	}
	return n
}

func toU32(idx []int) []uint32 {
	out := make([]uint32, len(idx))
	for i, v := range idx {
		out[i] = uint32(v)
	}
	return out
}

func putVertex(b []byte, p geo.Point3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(p.Y))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(p.Z))
}

func getVertex(b []byte) geo.Point3 {
	return geo.Pt3(
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	)
}

// cpuKernel is the reference implementation the CPU device runs in place
// of cs_heightmap, parallelized over grid points with a fixed per-thread
// serial fold (spec §5: "MUST use an associative reduction ... or a fixed-
// order serial fold to guarantee bit-identical results").
func cpuKernel(pointCount, _, _ int, buffers []gcompute.Buffer) {
	bytesOf := func(b gcompute.Buffer) []byte { return b.(interface{ Bytes() []byte }).Bytes() }
	dims := bytesOf(buffers[0])
	bottom := math.Float32frombits(binary.LittleEndian.Uint32(dims[8:12]))
	points := bytesOf(buffers[1])
	tris := bytesOf(buffers[2])
	start := bytesOf(buffers[3])
	list := bytesOf(buffers[4])
	out := bytesOf(buffers[5])

	startAt := func(p int) uint32 { return binary.LittleEndian.Uint32(start[p*4:]) }
	listAt := func(k uint32) uint32 { return binary.LittleEndian.Uint32(list[k*4:]) }

	workers := numWorkers(pointCount)
	var wg sync.WaitGroup
	chunk := (pointCount + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= pointCount {
			break
		}
		hi := lo + chunk
		if hi > pointCount {
			hi = pointCount
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for p := lo; p < hi; p++ {
				x := math.Float32frombits(binary.LittleEndian.Uint32(points[p*8:]))
				y := math.Float32frombits(binary.LittleEndian.Uint32(points[p*8+4:]))
				best := bottom
				for k := startAt(p); k < startAt(p+1); k++ {
					ti := listAt(k)
					v1 := getVertex(tris[ti*48:])
					v2 := getVertex(tris[ti*48+16:])
					v3 := getVertex(tris[ti*48+32:])
					area := edgeFn(v1.X, v1.Y, v2.X, v2.Y, v3.X, v3.Y)
					if area == 0 {
						continue
					}
					l1 := edgeFn(v2.X, v2.Y, v3.X, v3.Y, x, y) / area
					l2 := edgeFn(v3.X, v3.Y, v1.X, v1.Y, x, y) / area
					l3 := edgeFn(v1.X, v1.Y, v2.X, v2.Y, x, y) / area
					if l1 >= 0 && l2 >= 0 && l3 >= 0 {
						z := l1*v1.Z + l2*v2.Z + l3*v3.Z
						if z > best {
							best = z
						}
					}
				}
				binary.LittleEndian.PutUint32(out[p*4:], math.Float32bits(best))
			}
		}(lo, hi)
	}
	wg.Wait()
}

func edgeFn(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}
