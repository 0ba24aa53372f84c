// SPDX-License-Identifier: Unlicense OR MIT

package partition

import "runtime"

func numWorkers(n int) int {
	w := runtime.GOMAXPROCS(0)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}
