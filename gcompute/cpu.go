// SPDX-License-Identifier: Unlicense OR MIT

package gcompute

// cpuDevice is the software fallback backend: buffers are plain host
// memory, and Dispatch runs a kernel's CPUKernel directly. It mirrors the
// useCPU branch of gio's gpu/compute.go (itself dispatching onto
// gioui.org/cpu's worker pool), reimplemented directly over the kernel
// closures supplied by partition/heightmap rather than gio's private
// bytecode VM (see DESIGN.md, "Dropped teacher dependencies").
type cpuDevice struct{}

func newCPUDevice() Device {
	return cpuDevice{}
}

func (cpuDevice) Name() string { return "cpu" }

func (cpuDevice) NewBuffer(usage BufferUsage, size int, data []byte) (Buffer, error) {
	buf := &cpuBuffer{data: make([]byte, size)}
	if data != nil {
		copy(buf.data, data)
	}
	return buf, nil
}

func (cpuDevice) NewComputeProgram(label, wgsl, entryPoint string, cpu CPUKernel) (Program, error) {
	return &cpuProgram{label: label, entryPoint: entryPoint, kernel: cpu}, nil
}

func (cpuDevice) Dispatch(p Program, buffers []Buffer, x, y, z int) error {
	prog := p.(*cpuProgram)
	prog.kernel(x, y, z, buffers)
	return nil
}

func (cpuDevice) Release() {}

type cpuBuffer struct {
	data []byte
}

func (b *cpuBuffer) Upload(data []byte) error {
	copy(b.data, data)
	return nil
}

func (b *cpuBuffer) Download(data []byte) error {
	copy(data, b.data)
	return nil
}

func (b *cpuBuffer) Release() { b.data = nil }

// Bytes exposes the buffer's backing storage directly, so CPU kernels can
// read/write in place instead of paying an Upload/Download copy on every
// dispatch — the CPU backend has no host/device boundary to cross.
func (b *cpuBuffer) Bytes() []byte { return b.data }

type cpuProgram struct {
	label      string
	entryPoint string
	kernel     CPUKernel
}

func (*cpuProgram) Release() {}
