package ingest

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MalithGihan/raftplot/pkg/rlog"
	"github.com/MalithGihan/raftplot/pkg/types"
)

var log = rlog.New("ingest")

// ReadFile loads a whole trace file and parses it.
func ReadFile(path string) (types.Trace, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Trace{}, errors.Wrapf(ErrMissingInput, "%s: %v", path, err)
	}
	tr, err := ParseLines(splitLines(string(b)))
	if err != nil {
		return types.Trace{}, errors.WithMessage(err, path)
	}
	log.Debug("trace read", zap.String("path", path), zap.Int("steps", len(tr.Steps)),
		zap.Int("nodes", len(tr.Nodes)), zap.Bool("partition", tr.Partition != nil))
	return tr, nil
}

// Parse reads r to the end and parses its lines.
func Parse(r io.Reader) (types.Trace, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return types.Trace{}, errors.Wrap(err, "read trace")
	}
	return ParseLines(splitLines(string(b)))
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
