package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/MalithGihan/raftplot/internal/ingest"
	"github.com/MalithGihan/raftplot/pkg/rlog"
	"github.com/MalithGihan/raftplot/pkg/types"
)

func main() {
	err := newRootCmd().Execute()
	rlog.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "raftplot:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, ingest.ErrMissingInput):
		return 2
	case errors.Is(err, ingest.ErrMalformedLine):
		return 3
	case errors.Is(err, types.ErrInconsistentSeries):
		return 4
	default:
		return 1
	}
}
