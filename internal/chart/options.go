package chart

const (
	DefaultTitle  = "Log lengths over simulation step time"
	DefaultXLabel = "Simulation steps"
	DefaultYLabel = "Log lengths"

	PartitionLabel = "Partition Point"
)

// Options controls the look of a rendered chart. Width and Height are in inches,
// FontSize in points and applies to every piece of text on the chart.
type Options struct {
	Title    string
	XLabel   string
	YLabel   string
	FontSize float64
	Width    float64
	Height   float64
	DPI      int
}

func DefaultOptions() Options {
	return Options{
		Title:    DefaultTitle,
		XLabel:   DefaultXLabel,
		YLabel:   DefaultYLabel,
		FontSize: 20,
		Width:    6.4,
		Height:   4.8,
		DPI:      100,
	}
}
