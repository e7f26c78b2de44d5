package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/MalithGihan/raftplot/pkg/rlog"
	"github.com/MalithGihan/raftplot/pkg/types"
)

var ErrUnsupportedFormat = errors.New("unsupported chart format")

var log = rlog.New("chart")

func NodeLabel(id types.NodeID) string {
	return fmt.Sprintf("Node %d", id)
}

// Render builds a line chart with one series per node against the shared
// simulation steps, plus a vertical marker when the trace has a partition.
func Render(tr types.Trace, opts Options) (*plot.Plot, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	size := vg.Points(opts.FontSize)
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Legend.TextStyle.Font.Size = size
	p.Legend.Top = true
	p.Legend.Left = true

	for i, n := range tr.Nodes {
		xys := make(plotter.XYs, len(tr.Steps))
		for j, step := range tr.Steps {
			xys[j].X = float64(step)
			xys[j].Y = float64(n.LogLengths[j])
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "node %d", n.ID)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(NodeLabel(n.ID), l)
	}

	if tr.Partition != nil {
		if err := addPartition(p, tr, size); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func addPartition(p *plot.Plot, tr types.Trace, size vg.Length) error {
	idx, fallback, err := types.PartitionIndex(tr.Steps, *tr.Partition)
	if err != nil {
		return err
	}
	if fallback {
		log.Warn("partition step is past the last simulation step, marking the last step",
			zap.Int("partition", *tr.Partition), zap.Int("lastStep", tr.Steps[idx]))
	}

	x := float64(tr.Steps[idx])
	lo, hi := yRange(tr)
	top := hi + (hi-lo)*0.1
	if top == lo {
		top = lo + 1
	}

	marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: lo}, {X: x, Y: top}})
	if err != nil {
		return errors.Wrap(err, "partition marker")
	}
	marker.Color = color.Black
	marker.Width = vg.Points(1)
	marker.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: top}},
		Labels: []string{PartitionLabel},
	})
	if err != nil {
		return errors.Wrap(err, "partition label")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = size
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	p.Add(marker, labels)
	return nil
}

func yRange(tr types.Trace) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, n := range tr.Nodes {
		for _, v := range n.LogLengths {
			lo = math.Min(lo, float64(v))
			hi = math.Max(hi, float64(v))
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	return lo, hi
}

// Write encodes p in the given format. Raster formats honor opts.DPI.
func Write(w io.Writer, p *plot.Plot, format string, opts Options) error {
	width := vg.Length(opts.Width) * vg.Inch
	height := vg.Length(opts.Height) * vg.Inch

	format = strings.ToLower(strings.TrimPrefix(format, "."))
	var wt io.WriterTo
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(opts.DPI))
		p.Draw(draw.New(c))
		switch format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: c}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: c}
		default:
			wt = vgimg.TiffCanvas{Canvas: c}
		}
	case "svg", "pdf", "eps":
		var err error
		wt, err = p.WriterTo(width, height, format)
		if err != nil {
			return errors.Wrapf(err, "encode %s", format)
		}
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrapf(err, "write %s", format)
	}
	return nil
}

// Save writes p to path, picking the format from the file extension.
func Save(path string, p *plot.Plot, opts Options) error {
	format := filepath.Ext(path)
	if format == "" {
		return errors.Wrapf(ErrUnsupportedFormat, "%s has no extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create chart file")
	}
	if err := Write(f, p, format, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
