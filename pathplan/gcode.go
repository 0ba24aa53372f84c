// SPDX-License-Identifier: Unlicense OR MIT

package pathplan

import (
	"bufio"
	"fmt"
	"io"

	"dropcutter.dev/toolpath/geo"
)

// safeZ is the retract height path emission returns to between islands and
// before any rapid that would otherwise drag the cutter through stock
// (spec §4.7 step 4). It is hard-coded to 0, the normalized stock top,
// which is clear of the mesh everywhere; it is not configurable (Open
// Question decision, see DESIGN.md).
const safeZ float32 = 0

// retractThreshold is the 2D distance past which path emission retracts
// before rapiding to a segment's start, in multiples of tool diameter
// (spec §4.7 step 4).
const retractThreshold = 1.5

// Writer emits G-code across one or more calls to EmitIslands, carrying
// the cutter's position forward between them. A Layer is transient (spec
// §3, "kept only long enough to emit G-code"), so the pipeline calls
// EmitIslands once per rest-milling iteration rather than buffering every
// layer's islands for a single final pass.
type Writer struct {
	bw   *bufio.Writer
	last geo.Point3
}

// NewWriter wraps w and writes the opening safe-height move at feed 300
// (spec §4.7 step 4).
func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "G1 Z%.3f F300\n", safeZ); err != nil {
		return nil, err
	}
	return &Writer{bw: bw, last: geo.Pt3(0, 0, safeZ)}, nil
}

// EmitIslands writes G-code for islands, in greedy nearest-neighbor order
// from the cutter's current position, each island's segments similarly
// sequenced (spec §4.7 steps 2-4).
func (gw *Writer) EmitIslands(islands []Island, diameter float32) error {
	for _, isl := range sequenceIslands(islands, gw.last) {
		segments, newLast := sequenceSegments(isl.Segments, gw.last)
		for _, seg := range segments {
			if seg.First().Dist2D(gw.last) > retractThreshold*diameter {
				if err := writeRetract(gw.bw); err != nil {
					return err
				}
				if err := writeRapid(gw.bw, seg.First()); err != nil {
					return err
				}
			}
			for _, p := range seg.Points {
				if err := writeFeed(gw.bw, p); err != nil {
					return err
				}
			}
			gw.last = seg.Last()
		}
		if err := writeRetract(gw.bw); err != nil {
			return err
		}
		gw.last = geo.Pt3(newLast.X, newLast.Y, safeZ)
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer.
func (gw *Writer) Flush() error {
	return gw.bw.Flush()
}

// Emit is a convenience wrapper for the common single-pass case: it opens
// a Writer, emits islands once, and flushes.
func Emit(w io.Writer, islands []Island, diameter float32) error {
	gw, err := NewWriter(w)
	if err != nil {
		return err
	}
	if err := gw.EmitIslands(islands, diameter); err != nil {
		return err
	}
	return gw.Flush()
}

func writeRetract(w io.Writer) error {
	_, err := fmt.Fprintf(w, "G0 Z%.3f\n", safeZ)
	return err
}

func writeRapid(w io.Writer, p geo.Point3) error {
	_, err := fmt.Fprintf(w, "G0 X%.3f Y%.3f\n", p.X, p.Y)
	return err
}

func writeFeed(w io.Writer, p geo.Point3) error {
	_, err := fmt.Fprintf(w, "G1 X%.3f Y%.3f Z%.3f\n", p.X, p.Y, p.Z)
	return err
}
