package types

import (
	"github.com/pkg/errors"
)

var (
	ErrInconsistentSeries = errors.New("inconsistent series")
	ErrNoSteps            = errors.New("no simulation steps")
)

type NodeID int

// NodeLogSeries holds one log length per RaftState snapshot of a node, in read order.
type NodeLogSeries struct {
	ID         NodeID
	LogLengths []int
}

// Trace is the result of one read pass over a simulation trace.
// Nodes are kept in order of first appearance.
type Trace struct {
	Steps     []int
	Nodes     []NodeLogSeries
	Partition *int // BreakLink step, nil when absent
}

func (t Trace) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(t.Nodes))
	for _, n := range t.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func (t Trace) Series(id NodeID) (NodeLogSeries, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeLogSeries{}, false
}

// Validate checks that every node series lines up index for index with Steps.
func (t Trace) Validate() error {
	for _, n := range t.Nodes {
		if len(n.LogLengths) != len(t.Steps) {
			return errors.Wrapf(ErrInconsistentSeries, "node %d has %d log lengths for %d simulation steps",
				n.ID, len(n.LogLengths), len(t.Steps))
		}
	}
	return nil
}

// PartitionIndex returns the first index whose step is >= partition.
// When no step qualifies the last index is returned with fallback set.
func PartitionIndex(steps []int, partition int) (idx int, fallback bool, err error) {
	if len(steps) == 0 {
		return 0, false, errors.Wrapf(ErrNoSteps, "partition at step %d", partition)
	}
	for i, s := range steps {
		if s >= partition {
			return i, false, nil
		}
	}
	return len(steps) - 1, true, nil
}
