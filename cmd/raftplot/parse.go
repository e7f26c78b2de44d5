package main

import (
	"github.com/spf13/cobra"

	"github.com/MalithGihan/raftplot/internal/ingest"
	"github.com/MalithGihan/raftplot/internal/report"
)

func newParseCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [input]",
		Short: "Print the parsed trace as a JSON or YAML summary",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bind(rf.vp, cmd, "format", "format")
			return rf.opts.ConfigureWithViper(rf.vp)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := rf.opts.Input
			if len(args) > 0 {
				input = args[0]
			}
			tr, err := ingest.ReadFile(input)
			if err != nil {
				return err
			}
			s, err := report.Build(tr)
			if err != nil {
				return err
			}
			return report.Encode(cmd.OutOrStdout(), s, rf.opts.Format)
		},
	}
	cmd.Flags().StringP("format", "f", "", "json or yaml (default json)")
	return cmd
}
