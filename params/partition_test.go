// SPDX-License-Identifier: MIT

package params_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mrsim/params"
)

// view flattens a partition into comparable data.
type view struct {
	Atoms  int
	Names  []string
	Rows   [][]float64
	Static map[string][]float64
}

func viewOf(t *testing.T, p *params.Partition) view {
	t.Helper()
	v := view{Atoms: p.Atoms, Names: p.Names, Static: p.Static}
	for i := 0; i < p.Atoms; i++ {
		row, err := p.Row(i)
		require.NoError(t, err)
		v.Rows = append(v.Rows, row)
	}

	return v
}

func TestPartition_Classification(t *testing.T) {
	s := tissueSchema(t)
	cases := []struct {
		name   string
		values params.Values
		opts   []params.Option
		want   view
	}{
		{
			name:   "all scalar",
			values: params.Values{"T1": {1000}, "T2": {100}},
			want: view{
				Atoms: 1,
				Names: []string{"B1"},
				Rows:  [][]float64{{1}},
				Static: map[string][]float64{
					"T1": {1000}, "T2": {100}, "M0": {1}, "TR": {5}, "echoes": {4},
				},
			},
		},
		{
			name:   "vector T1 broadcasts, scalars replicate",
			values: params.Values{"T1": {800, 1000, 1200}, "T2": {100}, "flips": {0.1, 0.2}},
			want: view{
				Atoms: 3,
				Names: []string{"T1", "B1"},
				Rows:  [][]float64{{800, 1}, {1000, 1}, {1200, 1}},
				Static: map[string][]float64{
					"T2": {100}, "M0": {1}, "flips": {0.1, 0.2}, "TR": {5}, "echoes": {4},
				},
			},
		},
		{
			name:   "force static keeps vector shared",
			values: params.Values{"T1": {800, 1000}, "T2": {100, 50}, "B1": {0.9}},
			opts:   []params.Option{params.ForceStatic("T2", "B1")},
			want: view{
				Atoms: 2,
				Names: []string{"T1"},
				Rows:  [][]float64{{800}, {1000}},
				Static: map[string][]float64{
					"T2": {100, 50}, "B1": {0.9}, "M0": {1}, "TR": {5}, "echoes": {4},
				},
			},
		},
		{
			name:   "force broadcast stacks scalar",
			values: params.Values{"T1": {1000}, "T2": {80, 90}, "TR": {6}},
			opts:   []params.Option{params.ForceBroadcast("TR")},
			want: view{
				Atoms: 2,
				Names: []string{"T2", "B1", "TR"},
				Rows:  [][]float64{{80, 1, 6}, {90, 1, 6}},
				Static: map[string][]float64{
					"T1": {1000}, "M0": {1}, "echoes": {4},
				},
			},
		},
		{
			name:   "infinite T1 is kept",
			values: params.Values{"T1": {math.Inf(1), 900}, "T2": {100}},
			want: view{
				Atoms: 2,
				Names: []string{"T1", "B1"},
				Rows:  [][]float64{{math.Inf(1), 1}, {900, 1}},
				Static: map[string][]float64{
					"T2": {100}, "M0": {1}, "TR": {5}, "echoes": {4},
				},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := s.Partition(tc.values, tc.opts...)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, viewOf(t, p)); diff != "" {
				t.Fatalf("partition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition_ShapeMismatch(t *testing.T) {
	s := tissueSchema(t)
	_, err := s.Partition(params.Values{"T1": {800, 1000, 1200}, "T2": {50, 60}})
	require.ErrorIs(t, err, params.ErrShapeMismatch)
	require.Contains(t, err.Error(), `"T2" has 2 atoms, "T1" has 3`)
}

func TestPartition_AggregatesValidationErrors(t *testing.T) {
	s := tissueSchema(t)
	_, err := s.Partition(
		params.Values{"T2": {math.NaN()}, "T3": {1}, "M0": {}},
		params.ForceBroadcast("flips", "nope"),
	)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 5)
	for _, want := range []error{
		params.ErrUnknownParameter,
		params.ErrMissingParameter,
		params.ErrInvalidValue,
	} {
		require.ErrorIs(t, err, want)
	}
	// "flips" has no value and no default, so the forced broadcast is moot.
	require.NotErrorIs(t, err, params.ErrNotBroadcastable)
}

func TestPartition_OverrideErrors(t *testing.T) {
	s := tissueSchema(t)
	base := params.Values{"T1": {1000}, "T2": {100}, "flips": {0.1, 0.2}}

	_, err := s.Partition(base, params.ForceBroadcast("flips"))
	require.ErrorIs(t, err, params.ErrNotBroadcastable)

	_, err = s.Partition(base, params.ForceBroadcast("T1"), params.ForceStatic("T1"))
	require.ErrorIs(t, err, params.ErrInvalidSpec)
}

func TestPartition_Lookup(t *testing.T) {
	s := tissueSchema(t)
	p, err := s.Partition(params.Values{"T1": {800, 1000}, "T2": {100}, "flips": {0.1, 0.2}})
	require.NoError(t, err)

	loc, ok := p.Lookup("B1")
	require.True(t, ok)
	require.Equal(t, params.Location{Broadcast: true, Column: 1}, loc)

	loc, ok = p.Lookup("T2")
	require.True(t, ok)
	require.False(t, loc.Broadcast)

	_, ok = p.Lookup("missing")
	require.False(t, ok)

	v, err := p.Scalar(1, "T1")
	require.NoError(t, err)
	require.Equal(t, 1000.0, v)
	v, err = p.Scalar(0, "T2")
	require.NoError(t, err)
	require.Equal(t, 100.0, v)

	_, err = p.Scalar(0, "flips")
	require.ErrorIs(t, err, params.ErrInvalidValue)
	_, err = p.Scalar(2, "T1")
	require.ErrorIs(t, err, params.ErrAtomOutOfRange)
	_, err = p.Row(-1)
	require.ErrorIs(t, err, params.ErrAtomOutOfRange)
}

func TestPartition_Differentiable(t *testing.T) {
	s := tissueSchema(t)
	p, err := s.Partition(params.Values{"T1": {800, 1000}, "T2": {100}, "flips": {0.1, 0.2}})
	require.NoError(t, err)

	cases := []struct {
		name string
		err  error
	}{
		{"T1", nil},
		{"T2", nil},
		{"B1", nil},
		{"TR", params.ErrNotDifferentiable},
		{"flips", params.ErrNotDifferentiable},
		{"T9", params.ErrUnknownParameter},
	}
	for _, tc := range cases {
		err := p.Differentiable(tc.name)
		if tc.err == nil {
			require.NoError(t, err, tc.name)
			continue
		}
		require.ErrorIs(t, err, tc.err, tc.name)
	}
}

func TestPartition_ValuesReconstruct(t *testing.T) {
	s := tissueSchema(t)
	in := params.Values{"T1": {800, 1000}, "T2": {100}, "B1": {0.9}}
	p, err := s.Partition(in)
	require.NoError(t, err)

	want := params.Values{
		"T1": {800, 1000}, "T2": {100}, "B1": {0.9, 0.9},
		"M0": {1}, "TR": {5}, "echoes": {4},
	}
	if diff := cmp.Diff(want, p.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPartition_DoesNotAliasInput(t *testing.T) {
	s := tissueSchema(t)
	in := params.Values{"T1": {800, 1000}, "T2": {100}}
	p, err := s.Partition(in)
	require.NoError(t, err)

	in["T1"][0] = -1
	in["T2"][0] = -1
	row, _ := p.Row(0)
	require.Equal(t, 800.0, row[0])
	require.Equal(t, []float64{100}, p.Static["T2"])
}
