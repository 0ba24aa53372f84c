// SPDX-License-Identifier: Unlicense OR MIT

package pipeline

import (
	"fmt"
	"io"
)

// Progress is the pipeline's progress-reporting collaborator (spec §1,
// "out of scope... specified only by interface"). Stage marks the start
// of a named pipeline phase; Notice reports a non-fatal condition (spec
// §7's cache-mismatch notice).
type Progress interface {
	Stage(name string)
	Notice(format string, args ...interface{})
}

// stderrProgress is the default Progress: plain lines to an io.Writer,
// normally os.Stderr.
type stderrProgress struct {
	w io.Writer
}

// NewStderrProgress returns a Progress that writes to w.
func NewStderrProgress(w io.Writer) Progress {
	return stderrProgress{w: w}
}

func (p stderrProgress) Stage(name string) {
	fmt.Fprintf(p.w, "dropcutter: %s\n", name)
}

func (p stderrProgress) Notice(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "dropcutter: notice: "+format+"\n", args...)
}

// noProgress discards all reporting; used by tests.
type noProgress struct{}

func (noProgress) Stage(string)                          {}
func (noProgress) Notice(format string, args ...interface{}) {}
