package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MalithGihan/raftplot/internal/options"
	"github.com/MalithGihan/raftplot/pkg/rlog"
)

type rootFlags struct {
	cfgFile string
	opts    *options.Options
	vp      *viper.Viper
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{opts: options.NewOptions()}
	cmd := &cobra.Command{
		Use:   "raftplot",
		Short: "Plot per-node Raft log growth from a simulation trace.",
		Long: `raftplot reads a Raft simulation trace (RaftState snapshots, simulation step
counters and an optional BreakLink partition marker) and draws one log-length
line per node, marking the partition point.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rf.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&rf.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON logs to this rotated file")

	cmd.AddCommand(newRenderCmd(rf), newParseCmd(rf), newServeCmd(rf))
	return cmd
}

func (rf *rootFlags) init(cmd *cobra.Command) error {
	vp, err := options.NewViper(rf.cfgFile)
	if err != nil {
		return err
	}
	bind(vp, cmd, "logger.level", "log-level")
	bind(vp, cmd, "logger.file", "log-file")
	rf.vp = vp
	if err := rf.opts.ConfigureWithViper(vp); err != nil {
		return err
	}
	rlog.Configure(rf.opts.LogOptions())
	return nil
}

// bind maps a flag onto a config key when the command defines it.
func bind(vp *viper.Viper, cmd *cobra.Command, key, flag string) {
	if f := cmd.Flags().Lookup(flag); f != nil {
		vp.BindPFlag(key, f)
	}
}
