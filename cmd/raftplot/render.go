package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MalithGihan/raftplot/internal/chart"
	"github.com/MalithGihan/raftplot/internal/ingest"
	"github.com/MalithGihan/raftplot/pkg/rlog"
)

func newRenderCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [input] [output]",
		Short: "Render the log-length chart of a trace to an image file",
		Args:  cobra.MaximumNArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for key, flag := range map[string]string{
				"output":         "output",
				"chart.title":    "title",
				"chart.fontSize": "font-size",
				"chart.width":    "width",
				"chart.height":   "height",
				"chart.dpi":      "dpi",
			} {
				bind(rf.vp, cmd, key, flag)
			}
			return rf.opts.ConfigureWithViper(rf.vp)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			o := rf.opts
			if len(args) > 0 {
				o.Input = args[0]
			}
			if len(args) > 1 {
				o.Output = args[1]
			}
			return render(o.Input, o.Output, o.Chart)
		},
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "chart file; png, jpg, tiff, svg, pdf or eps by extension (default state.png)")
	f.String("title", "", "chart title")
	f.Float64("font-size", 0, "font size in points for all chart text (default 20)")
	f.Float64("width", 0, "chart width in inches (default 6.4)")
	f.Float64("height", 0, "chart height in inches (default 4.8)")
	f.Int("dpi", 0, "raster resolution (default 100)")
	return cmd
}

func render(input, output string, opts chart.Options) error {
	tr, err := ingest.ReadFile(input)
	if err != nil {
		return err
	}
	p, err := chart.Render(tr, opts)
	if err != nil {
		return err
	}
	if err := chart.Save(output, p, opts); err != nil {
		return err
	}
	rlog.Info("chart written", zap.String("input", input), zap.String("output", output),
		zap.Int("nodes", len(tr.Nodes)), zap.Int("steps", len(tr.Steps)))
	return nil
}
