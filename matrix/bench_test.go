// Package matrix_test provides benchmarks for the exponential kernels,
// sized like the exchange operators of the EPG engine.
package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/mrsim/matrix"
)

var benchSizes = []int{2, 4, 7, 14}

// sinks to defeat dead-code elimination
var sinkD *matrix.Dense

func randDense(b *testing.B, n int, seed int64) *matrix.Dense {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, n*n)
	for i := range vals {
		vals[i] = rng.Float64() - 0.5
	}
	m, err := matrix.NewDenseFrom(n, n, vals)
	if err != nil {
		b.Fatal(err)
	}

	return m
}

func BenchmarkExpm(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			a := randDense(b, n, 1337)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e, err := matrix.Expm(a)
				if err != nil {
					b.Fatal(err)
				}
				sinkD = e
			}
		})
	}
}

func BenchmarkExpmFrechet(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			a := randDense(b, n, 11)
			e := randDense(b, n, 22)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, l, err := matrix.ExpmFrechet(a, e)
				if err != nil {
					b.Fatal(err)
				}
				sinkD = l
			}
		})
	}
}
