// SPDX-License-Identifier: MIT

package executor_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mrsim/backend"
	"github.com/katalvlaran/mrsim/executor"
)

func benchRun(b *testing.B, device string, chunk int) {
	be, _ := backend.New(device)
	e, _ := executor.New(be, chunk)
	work := func(i int) (float64, error) {
		s := 0.0
		for k := 1; k < 2000; k++ {
			s += math.Exp(-float64(i*k) / 1e6)
		}
		return s, nil
	}
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, _ = executor.Run(e, 4096, work)
	}
}

func BenchmarkRun_Serial(b *testing.B)   { benchRun(b, "cpu", 256) }
func BenchmarkRun_Parallel(b *testing.B) { benchRun(b, "cpu:auto", 256) }
