package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/raftplot/pkg/types"
)

func testTrace(partition *int) types.Trace {
	return types.Trace{
		Steps: []int{5, 6, 8},
		Nodes: []types.NodeLogSeries{
			{ID: 2, LogLengths: []int{3, 7, 5}},
			{ID: 1, LogLengths: []int{3, 4, 4}},
		},
		Partition: partition,
	}
}

func TestBuild(t *testing.T) {
	step := 6
	s, err := Build(testTrace(&step))
	require.NoError(t, err)

	assert.Equal(t, []int{5, 6, 8}, s.Steps)
	require.Len(t, s.Nodes, 2)
	assert.Equal(t, NodeSummary{ID: 2, Label: "Node 2", LogLengths: []int{3, 7, 5}, First: 3, Last: 5, Max: 7}, s.Nodes[0])
	assert.Equal(t, 1, s.Nodes[1].ID)
	assert.Equal(t, &Partition{Step: 6, Index: 1, X: 6, Fallback: false}, s.Partition)
}

func TestBuildFallback(t *testing.T) {
	step := 42
	s, err := Build(testTrace(&step))
	require.NoError(t, err)
	assert.Equal(t, &Partition{Step: 42, Index: 2, X: 8, Fallback: true}, s.Partition)
}

func TestBuildInconsistent(t *testing.T) {
	tr := testTrace(nil)
	tr.Steps = tr.Steps[:2]
	_, err := Build(tr)
	assert.True(t, errors.Is(err, types.ErrInconsistentSeries))
}

func TestEncodeJSON(t *testing.T) {
	s, err := Build(testTrace(nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, "json"))

	var back Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, s, back)
	assert.NotContains(t, buf.String(), "partition")
}

func TestEncodeEmptyTrace(t *testing.T) {
	s, err := Build(types.Trace{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, ""))
	assert.JSONEq(t, `{"steps":[],"nodes":[]}`, buf.String())
}

func TestEncodeYAML(t *testing.T) {
	step := 6
	s, err := Build(testTrace(&step))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, "yaml"))
	assert.Contains(t, buf.String(), "logLengths:")

	var back Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, s, back)

	err = Encode(&buf, s, "toml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
