// SPDX-License-Identifier: Unlicense OR MIT

//go:build nogpu

package gcompute

import "fmt"

// newWGPUDevice is stubbed out under the nogpu build tag (mirrors gio's own
// //go:build !nogpu convention on the wgpu backend in the gogpu/gg pack),
// so a binary built without GPU dependencies still links and simply always
// falls back to the CPU device.
func newWGPUDevice() (Device, error) {
	return nil, fmt.Errorf("gcompute: %w: built with -tags nogpu", ErrUnavailable)
}
