package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/MalithGihan/raftplot/pkg/types"
)

const (
	prefixRaftState = "RaftState"
	prefixBreakLink = "BreakLink"

	fieldID           = "id"
	fieldLogLastIndex = "log_last_index"
)

// Keys are whole identifiers, so "leader_id" never answers for "id".
var reField = regexp.MustCompile(`(?P<key>[A-Za-z_][A-Za-z0-9_]*):\s*(?P<value>[^\s,{}()\[\]]*)`)

// ParseLines classifies every line and builds a Trace in one pass.
// The first malformed line aborts the parse.
func ParseLines(lines []string) (types.Trace, error) {
	var (
		tr    types.Trace
		index = map[types.NodeID]int{} // node id -> position in tr.Nodes
	)
	for i, ln := range lines {
		l := strings.TrimSpace(ln)
		if l == "" {
			continue
		}
		switch {
		case strings.HasPrefix(l, prefixRaftState):
			id, logIdx, err := parseRaftState(l)
			if err != nil {
				return types.Trace{}, lineErr(i, ln, err.Error())
			}
			pos, ok := index[id]
			if !ok {
				pos = len(tr.Nodes)
				index[id] = pos
				tr.Nodes = append(tr.Nodes, types.NodeLogSeries{ID: id})
			}
			tr.Nodes[pos].LogLengths = append(tr.Nodes[pos].LogLengths, logIdx)
		case strings.HasPrefix(l, prefixBreakLink):
			f := strings.Fields(l)
			if len(f) < 2 {
				return types.Trace{}, lineErr(i, ln, "BreakLink without a step")
			}
			step, err := strconv.Atoi(f[1])
			if err != nil {
				return types.Trace{}, lineErr(i, ln, "BreakLink step is not an integer")
			}
			tr.Partition = &step
		default:
			f := strings.Fields(l)
			step, err := strconv.Atoi(f[0])
			if err != nil {
				return types.Trace{}, lineErr(i, ln, "simulation step is not an integer")
			}
			tr.Steps = append(tr.Steps, step)
		}
	}
	return tr, nil
}

func lineErr(i int, text, reason string) error {
	return &LineError{Line: i + 1, Text: strings.TrimRight(text, "\r\n"), Reason: reason}
}

func parseRaftState(l string) (types.NodeID, int, error) {
	fields := tokenize(l[len(prefixRaftState):])
	id, err := intField(fields, fieldID)
	if err != nil {
		return 0, 0, err
	}
	logIdx, err := intField(fields, fieldLogLastIndex)
	if err != nil {
		return 0, 0, err
	}
	return types.NodeID(id), logIdx, nil
}

// tokenize returns the first value seen for every "key: value" pair.
func tokenize(s string) map[string]string {
	out := map[string]string{}
	ki, vi := reField.SubexpIndex("key"), reField.SubexpIndex("value")
	for _, m := range reField.FindAllStringSubmatch(s, -1) {
		if _, seen := out[m[ki]]; !seen {
			out[m[ki]] = m[vi]
		}
	}
	return out
}

func intField(fields map[string]string, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, errors.Errorf("missing field %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("field %s is not an integer: %q", key, v)
	}
	return n, nil
}
