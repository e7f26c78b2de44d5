package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/raftplot/internal/server"
	"github.com/MalithGihan/raftplot/internal/store"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve uploaded traces, their summaries and charts over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bind(rf.vp, cmd, "serve.addr", "addr")
			bind(rf.vp, cmd, "serve.dataRoot", "data-root")
			return rf.opts.ConfigureWithViper(rf.vp)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(rf.opts.Serve.DataRoot)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.New(st, rf.opts.Chart).Run(ctx, rf.opts.Serve.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8081)")
	cmd.Flags().String("data-root", "", "directory for uploaded traces (default ./traces)")
	return cmd
}
