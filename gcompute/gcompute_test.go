// SPDX-License-Identifier: Unlicense OR MIT

package gcompute

import "testing"

func TestNewDeviceForceCPU(t *testing.T) {
	dev, err := NewDevice(true)
	if err != nil {
		t.Fatalf("NewDevice(true): %v", err)
	}
	defer dev.Release()
	if dev.Name() != "cpu" {
		t.Fatalf("Name() = %q, want %q", dev.Name(), "cpu")
	}
}

func TestCPUBufferUploadDownloadRoundTrip(t *testing.T) {
	dev := newCPUDevice()
	defer dev.Release()

	buf, err := dev.NewBuffer(BufferUsageStorage, 4, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer buf.Release()

	if err := buf.Upload([]byte{5, 6, 7, 8}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	out := make([]byte, 4)
	if err := buf.Download(out); err != nil {
		t.Fatalf("Download: %v", err)
	}
	want := []byte{5, 6, 7, 8}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("Download()[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestCPUDispatchRunsKernelSynchronously(t *testing.T) {
	dev := newCPUDevice()
	defer dev.Release()

	buf, err := dev.NewBuffer(BufferUsageStorage, 4, nil)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer buf.Release()

	var gotX, gotY, gotZ int
	kernel := CPUKernel(func(dimX, dimY, dimZ int, buffers []Buffer) {
		gotX, gotY, gotZ = dimX, dimY, dimZ
		buffers[0].Upload([]byte{9, 9, 9, 9})
	})
	prog, err := dev.NewComputeProgram("test", "", "main", kernel)
	if err != nil {
		t.Fatalf("NewComputeProgram: %v", err)
	}
	defer prog.Release()

	if err := dev.Dispatch(prog, []Buffer{buf}, 2, 3, 4); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if gotX != 2 || gotY != 3 || gotZ != 4 {
		t.Fatalf("kernel saw dims (%d,%d,%d), want (2,3,4)", gotX, gotY, gotZ)
	}
	out := make([]byte, 4)
	buf.Download(out)
	for _, b := range out {
		if b != 9 {
			t.Fatalf("buffer after dispatch = %v, want all 9s", out)
		}
	}
}
