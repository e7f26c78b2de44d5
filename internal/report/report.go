package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/raftplot/internal/chart"
	"github.com/MalithGihan/raftplot/internal/validate"
	"github.com/MalithGihan/raftplot/pkg/types"
)

var ErrUnsupportedFormat = errors.New("unsupported summary format")

type Summary struct {
	Steps     []int         `json:"steps" yaml:"steps"`
	Nodes     []NodeSummary `json:"nodes" yaml:"nodes"`
	Partition *Partition    `json:"partition,omitempty" yaml:"partition,omitempty"`
}

type NodeSummary struct {
	ID         int    `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	LogLengths []int  `json:"logLengths" yaml:"logLengths"`
	First      int    `json:"first" yaml:"first"`
	Last       int    `json:"last" yaml:"last"`
	Max        int    `json:"max" yaml:"max"`
}

// Partition is the BreakLink step resolved against the simulation steps.
// X is the step value the chart marks.
type Partition struct {
	Step     int  `json:"step" yaml:"step"`
	Index    int  `json:"index" yaml:"index"`
	X        int  `json:"x" yaml:"x"`
	Fallback bool `json:"fallback" yaml:"fallback"`
}

func Build(tr types.Trace) (Summary, error) {
	if err := tr.Validate(); err != nil {
		return Summary{}, err
	}
	s := Summary{
		Steps: append([]int{}, tr.Steps...),
		Nodes: make([]NodeSummary, 0, len(tr.Nodes)),
	}
	for _, n := range tr.Nodes {
		ns := NodeSummary{
			ID:         int(n.ID),
			Label:      chart.NodeLabel(n.ID),
			LogLengths: append([]int{}, n.LogLengths...),
		}
		if len(n.LogLengths) > 0 {
			ns.First = n.LogLengths[0]
			ns.Last = n.LogLengths[len(n.LogLengths)-1]
			ns.Max = ns.First
			for _, v := range n.LogLengths {
				ns.Max = max(ns.Max, v)
			}
		}
		s.Nodes = append(s.Nodes, ns)
	}
	if tr.Partition != nil {
		idx, fallback, err := types.PartitionIndex(tr.Steps, *tr.Partition)
		if err != nil {
			return Summary{}, err
		}
		s.Partition = &Partition{Step: *tr.Partition, Index: idx, X: tr.Steps[idx], Fallback: fallback}
	}
	return s, nil
}

// Encode writes s as indented JSON or YAML. JSON output is schema checked first.
func Encode(w io.Writer, s Summary, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		if err := validate.Summary(s); err != nil {
			return errors.Wrap(err, "summary failed schema check")
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "application/yaml"
	default:
		return "application/json"
	}
}
