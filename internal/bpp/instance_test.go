package bpp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstanceValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inst    Instance
		wantErr error
	}{
		{
			name: "Valid",
			inst: Instance{Name: "ok", Capacity: 10, Sizes: []int{3, 7, 10}},
		},
		{
			name:    "ZeroCapacity",
			inst:    Instance{Name: "bad", Capacity: 0, Sizes: []int{1}},
			wantErr: ErrMalformedInput,
		},
		{
			name:    "NoItems",
			inst:    Instance{Name: "bad", Capacity: 10},
			wantErr: ErrMalformedInput,
		},
		{
			name:    "ZeroSize",
			inst:    Instance{Name: "bad", Capacity: 10, Sizes: []int{5, 0}},
			wantErr: ErrMalformedInput,
		},
		{
			name:    "Oversized",
			inst:    Instance{Name: "bad", Capacity: 10, Sizes: []int{5, 11}},
			wantErr: ErrInfeasibleItem,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.inst.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestExampleInstance(t *testing.T) {
	t.Parallel()

	inst := ExampleInstance()
	require.NoError(t, inst.Validate())
	require.Equal(t, 60, inst.Capacity)
	require.Equal(t, 7, inst.Items())
	require.Equal(t, 4, inst.OptBins)
	require.Equal(t, 180, inst.TotalSize())
}

func TestSyntheticInstanceDeterministic(t *testing.T) {
	t.Parallel()

	a := SyntheticInstance("s", 50, 150, 10, 100, 7)
	b := SyntheticInstance("s", 50, 150, 10, 100, 7)
	c := SyntheticInstance("s", 50, 150, 10, 100, 8)

	require.Equal(t, a, b, "same seed must reproduce the same instance")
	require.NotEqual(t, a.Sizes, c.Sizes, "different seeds should differ")
	require.NoError(t, a.Validate())
	for _, size := range a.Sizes {
		require.GreaterOrEqual(t, size, 10)
		require.LessOrEqual(t, size, 100)
	}
}

func TestDefaultBatchInstances(t *testing.T) {
	t.Parallel()

	batch := DefaultBatchInstances()
	require.Len(t, batch, 4)
	for _, inst := range batch {
		require.NoError(t, inst.Validate())
	}
}
