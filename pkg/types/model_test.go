package types

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionIndex(t *testing.T) {
	steps := []int{5, 6, 9}

	idx, fallback, err := PartitionIndex(steps, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.False(t, fallback)

	idx, fallback, err = PartitionIndex(steps, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.False(t, fallback)

	idx, fallback, err = PartitionIndex(steps, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.False(t, fallback)
}

func TestPartitionIndexFallback(t *testing.T) {
	idx, fallback, err := PartitionIndex([]int{5, 6}, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.True(t, fallback)

	_, _, err = PartitionIndex(nil, 3)
	assert.True(t, errors.Is(err, ErrNoSteps))
}

func TestTraceValidate(t *testing.T) {
	tr := Trace{
		Steps: []int{5, 6},
		Nodes: []NodeLogSeries{
			{ID: 1, LogLengths: []int{3, 4}},
			{ID: 2, LogLengths: []int{3, 4}},
		},
	}
	assert.NoError(t, tr.Validate())

	tr.Nodes[1].LogLengths = []int{3}
	err := tr.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistentSeries))
	assert.Contains(t, err.Error(), "node 2")
}

func TestTraceLookup(t *testing.T) {
	tr := Trace{Nodes: []NodeLogSeries{{ID: 3}, {ID: 1}}}
	assert.Equal(t, []NodeID{3, 1}, tr.NodeIDs())

	s, ok := tr.Series(1)
	assert.True(t, ok)
	assert.Equal(t, NodeID(1), s.ID)

	_, ok = tr.Series(7)
	assert.False(t, ok)
}
