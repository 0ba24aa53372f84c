// SPDX-License-Identifier: Unlicense OR MIT

// Package gcompute provides the GPU compute abstraction the partition and
// heightmap kernels dispatch through (spec §4.3, §4.4), trimmed from
// gio's gpu/internal/driver.Device to the compute-only surface this
// pipeline needs, plus a CPU fallback that runs the identical per-point
// logic on a goroutine pool (spec §9, "GPU unavailability").
package gcompute

import "errors"

// BufferUsage mirrors the subset of gputypes.BufferUsage this pipeline's
// kernels need: every buffer here is either a read-only input the host
// uploads once, or a read-write storage buffer the kernel writes and the
// host reads back.
type BufferUsage uint8

const (
	BufferUsageStorage BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageCopySrc
	BufferUsageCopyDst
)

// Buffer is a GPU (or CPU-fallback) allocation.
type Buffer interface {
	Upload(data []byte) error
	Download(data []byte) error
	Release()
}

// Program is a compiled compute kernel bound to a fixed set of buffer
// bindings, in binding-index order.
type Program interface {
	Release()
}

// CPUKernel is the reference (non-GPU) implementation of a compute kernel:
// given the dispatch grid dimensions and the bound buffers (plain host
// memory under the CPU device), it performs the same work the WGSL source
// describes, parallelizing internally however fits the kernel (the
// partition and heightmap kernels each use their own worker-pool shape —
// see partition/partition.go and heightmap/gpu.go). The wgpu backend never calls
// it; the CPU backend calls it instead of dispatching to hardware.
// Providing both from the same call site is what makes spec §9's "must
// return bitwise-identical results" checkable by construction: the CPU
// path *is* the reference the WGSL kernel is required to match, run with
// a fixed serial reduction order (spec §5 ordering guarantees).
type CPUKernel func(dimX, dimY, dimZ int, buffers []Buffer)

// Device dispatches compute kernels. Buffers and programs it creates are
// only ever used with the Device that created them.
type Device interface {
	// NewBuffer allocates a buffer of size bytes and, if data is non-nil,
	// uploads it immediately.
	NewBuffer(usage BufferUsage, size int, data []byte) (Buffer, error)
	// NewComputeProgram compiles wgsl (the embedded kernel source, used by
	// the GPU backend) and binds it to entryPoint; cpu is the reference
	// implementation the CPU backend runs instead.
	NewComputeProgram(label, wgsl, entryPoint string, cpu CPUKernel) (Program, error)
	// Dispatch runs p over an (x, y, z) workgroup grid against buffers, in
	// their declared binding order, blocking until the GPU (or CPU pool)
	// fence signals completion.
	Dispatch(p Program, buffers []Buffer, x, y, z int) error
	// Name identifies the backend ("wgpu" or "cpu"), surfaced in
	// diagnostics and in the pipeline's startup log line.
	Name() string
	Release()
}

// ErrUnavailable is returned by NewDevice's GPU attempt when no compute
// backend is available; it is never fatal on its own — NewDevice falls
// back to the CPU device exactly as spec §9 recommends.
var ErrUnavailable = errors.New("gcompute: no GPU compute backend available")

// NewDevice tries the GPU backend first, falling back to the CPU backend
// on any error, mirroring gpu/headless.newContext's
// newContextPrimary/newContextFallback chain. forceCPU skips the GPU
// attempt entirely (used by tests, for results without hardware
// dependence, per spec §9); pipeline.Run always tries the GPU first.
func NewDevice(forceCPU bool) (Device, error) {
	if !forceCPU {
		if dev, err := newWGPUDevice(); err == nil {
			return dev, nil
		}
	}
	return newCPUDevice(), nil
}
