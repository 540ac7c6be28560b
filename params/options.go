// SPDX-License-Identifier: MIT

package params

// Option adjusts a single Partition call.
type Option func(*Options)

// Options is the resolved per-call configuration.
type Options struct {
	forceBroadcast map[string]bool
	forceStatic    map[string]bool
}

// ForceBroadcast stacks the named values into the batch regardless of their
// length or BroadcastAuto/BroadcastAlways policy.
func ForceBroadcast(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.forceBroadcast[n] = true
		}
	}
}

// ForceStatic keeps the named values static regardless of their length.
func ForceStatic(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.forceStatic[n] = true
		}
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{
		forceBroadcast: make(map[string]bool),
		forceStatic:    make(map[string]bool),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
