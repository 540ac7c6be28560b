// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDevice is the serial CPU backend.
	DefaultDevice = "cpu"

	deviceCPU  = "cpu"
	workerAuto = "auto"
)

// Backend evaluates independent work items.
type Backend interface {
	// Device returns the normalized device identifier.
	Device() string
	// Workers returns the maximum number of items evaluated concurrently.
	Workers() int
	// Map calls fn(i) once for every i in [0, n). Calls may run
	// concurrently and in any order; the first error stops scheduling of
	// further items and is returned after the running ones finish.
	Map(n int, fn func(i int) error) error
}

// CPU runs work items on goroutines of the current process.
type CPU struct {
	workers int
}

var _ Backend = (*CPU)(nil)

// New parses a device identifier.
//
// Errors:
//   - ErrUnknownDevice for anything but cpu, cpu:N (N >= 1) and cpu:auto.
func New(device string) (*CPU, error) {
	d := strings.ToLower(strings.TrimSpace(device))
	if d == "" {
		d = DefaultDevice
	}
	kind, arg, hasArg := strings.Cut(d, ":")
	if kind != deviceCPU {
		return nil, fmt.Errorf("%q: %w", device, ErrUnknownDevice)
	}
	if !hasArg {
		return &CPU{workers: 1}, nil
	}
	if arg == workerAuto {
		return &CPU{workers: runtime.GOMAXPROCS(0)}, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%q: worker count must be a positive integer or %q: %w", device, workerAuto, ErrUnknownDevice)
	}

	return &CPU{workers: n}, nil
}

// Device implements Backend.
func (c *CPU) Device() string {
	if c.workers == 1 {
		return deviceCPU
	}

	return deviceCPU + ":" + strconv.Itoa(c.workers)
}

// Workers implements Backend.
func (c *CPU) Workers() int { return c.workers }

// Map implements Backend. A single worker runs items in index order on the
// calling goroutine and stops at the first error.
func (c *CPU) Map(n int, fn func(i int) error) error {
	if c.workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(c.workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error { return fn(i) })
	}

	return g.Wait()
}
