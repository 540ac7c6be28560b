// SPDX-License-Identifier: MIT

package backend_test

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mrsim/backend"
)

func TestNew(t *testing.T) {
	cases := []struct {
		device  string
		workers int
		name    string
	}{
		{"cpu", 1, "cpu"},
		{"", 1, "cpu"},
		{" CPU ", 1, "cpu"},
		{"cpu:1", 1, "cpu"},
		{"cpu:4", 4, "cpu:4"},
	}
	for _, tc := range cases {
		b, err := backend.New(tc.device)
		require.NoError(t, err, tc.device)
		require.Equal(t, tc.workers, b.Workers(), tc.device)
		require.Equal(t, tc.name, b.Device(), tc.device)
	}

	b, err := backend.New("cpu:auto")
	require.NoError(t, err)
	require.Equal(t, runtime.GOMAXPROCS(0), b.Workers())
}

func TestNew_Unknown(t *testing.T) {
	for _, d := range []string{"cuda", "gpu:0", "cpu:0", "cpu:-2", "cpu:many"} {
		_, err := backend.New(d)
		require.ErrorIs(t, err, backend.ErrUnknownDevice, d)
	}
}

func TestMap_VisitsEveryIndexOnce(t *testing.T) {
	for _, device := range []string{"cpu", "cpu:3", "cpu:16"} {
		b, err := backend.New(device)
		require.NoError(t, err)

		const n = 257
		hits := make([]int32, n)
		require.NoError(t, b.Map(n, func(i int) error {
			atomic.AddInt32(&hits[i], 1)
			return nil
		}))
		for i, h := range hits {
			require.Equal(t, int32(1), h, "%s index %d", device, i)
		}
	}
}

func TestMap_RespectsWorkerLimit(t *testing.T) {
	b, err := backend.New("cpu:2")
	require.NoError(t, err)

	var cur, peak int32
	require.NoError(t, b.Map(64, func(int) error {
		c := atomic.AddInt32(&cur, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if c <= p || atomic.CompareAndSwapInt32(&peak, p, c) {
				break
			}
		}
		runtime.Gosched()
		atomic.AddInt32(&cur, -1)
		return nil
	}))
	require.LessOrEqual(t, peak, int32(2))
}

func TestMap_Error(t *testing.T) {
	boom := errors.New("boom")
	for _, device := range []string{"cpu", "cpu:4"} {
		b, err := backend.New(device)
		require.NoError(t, err)

		err = b.Map(100, func(i int) error {
			if i == 10 {
				return boom
			}
			return nil
		})
		require.ErrorIs(t, err, boom, device)
	}

	// Serial backend stops at the failing index.
	b, _ := backend.New("cpu")
	var calls int
	_ = b.Map(100, func(i int) error {
		calls++
		if i == 10 {
			return boom
		}
		return nil
	})
	require.Equal(t, 11, calls)
}
