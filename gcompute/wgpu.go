// SPDX-License-Identifier: Unlicense OR MIT

//go:build !nogpu

package gcompute

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// wgpuDevice is the GPU backend: every buffer is a storage buffer bound at
// a fixed index, every program a single-entry-point compute pipeline. The
// call shapes below (CreateBuffer/WriteBuffer/CreateBindGroupLayout/
// CreatePipelineLayout/CreateComputePipeline/CreateCommandEncoder/Submit/
// Wait/ReadBuffer) follow other_examples' gogpu-gg stencil_renderer.go and
// gpu_coarse.go; see DESIGN.md for the compute-pass extrapolation note.
type wgpuDevice struct {
	device hal.Device
	queue  hal.Queue
}

func newWGPUDevice() (Device, error) {
	device, queue, err := hal.DefaultAdapter().RequestDevice(&hal.DeviceDescriptor{
		Label: "dropcutter-compute",
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: %w: %v", ErrUnavailable, err)
	}
	return &wgpuDevice{device: device, queue: queue}, nil
}

func (d *wgpuDevice) Name() string { return "wgpu" }

func (d *wgpuDevice) NewBuffer(usage BufferUsage, size int, data []byte) (Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dropcutter-buffer",
		Size:  uint64(size),
		Usage: toGPUUsage(usage),
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: create buffer: %w", err)
	}
	if data != nil {
		if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
			d.device.DestroyBuffer(buf)
			return nil, fmt.Errorf("gcompute: write buffer: %w", err)
		}
	}
	return &wgpuBuffer{device: d.device, queue: d.queue, buf: buf, size: size}, nil
}

func toGPUUsage(u BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if u&BufferUsageStorage != 0 {
		out |= gputypes.BufferUsageStorage
	}
	if u&BufferUsageUniform != 0 {
		out |= gputypes.BufferUsageUniform
	}
	out |= gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead
	return out
}

func (d *wgpuDevice) NewComputeProgram(label, wgsl, entryPoint string, _ CPUKernel) (Program, error) {
	spirv, err := naga.CompileWGSLToSPIRV(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gcompute: compile %s: %w", label, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label, SPIRV: spirv,
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: shader module %s: %w", label, err)
	}
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_layout",
		Entries: storageBindingEntries(8), // generous fixed upper bound on bindings per kernel
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: bind group layout %s: %w", label, err)
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: pipeline layout %s: %w", label, err)
	}
	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gcompute: compute pipeline %s: %w", label, err)
	}
	return &wgpuProgram{pipeline: pipeline, bindLayout: bindLayout}, nil
}

func storageBindingEntries(n int) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, n)
	for i := range entries {
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{
				Type: gputypes.BufferBindingTypeStorage,
			},
		}
	}
	return entries
}

func (d *wgpuDevice) Dispatch(p Program, buffers []Buffer, x, y, z int) error {
	prog := p.(*wgpuProgram)
	entries := make([]gputypes.BindGroupEntry, len(buffers))
	for i, b := range buffers {
		wb := b.(*wgpuBuffer)
		entries[i] = gputypes.BindGroupEntry{
			Binding: uint32(i),
			Resource: gputypes.BufferBinding{
				Buffer: wb.buf.NativeHandle(), Offset: 0, Size: uint64(wb.size),
			},
		}
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "dropcutter-bind-group", Layout: prog.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("gcompute: bind group: %w", err)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "dropcutter-encoder"})
	if err != nil {
		return fmt.Errorf("gcompute: command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("dropcutter-dispatch"); err != nil {
		return fmt.Errorf("gcompute: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "dropcutter-pass"})
	pass.SetPipeline(prog.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32(x), uint32(y), uint32(z))
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gcompute: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gcompute: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gcompute: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, 30*time.Second)
	if err != nil || !ok {
		return fmt.Errorf("gcompute: wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

func (d *wgpuDevice) Release() {
	d.device.Release()
}

type wgpuBuffer struct {
	device hal.Device
	queue  hal.Queue
	buf    hal.Buffer
	size   int
}

func (b *wgpuBuffer) Upload(data []byte) error {
	return b.queue.WriteBuffer(b.buf, 0, data)
}

func (b *wgpuBuffer) Download(data []byte) error {
	return b.queue.ReadBuffer(b.buf, 0, data)
}

func (b *wgpuBuffer) Release() {
	b.device.DestroyBuffer(b.buf)
}

type wgpuProgram struct {
	pipeline   hal.ComputePipeline
	bindLayout hal.BindGroupLayout
}

func (*wgpuProgram) Release() {}
