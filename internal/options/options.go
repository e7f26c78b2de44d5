package options

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/MalithGihan/raftplot/internal/chart"
	"github.com/MalithGihan/raftplot/pkg/rlog"
)

const EnvPrefix = "raftplot"

type Options struct {
	vp *viper.Viper

	Input  string // trace file, "state.txt" by default
	Output string // chart file, format taken from the extension
	Format string // summary format for the parse command: json or yaml

	Chart  chart.Options
	Logger struct {
		Level   zapcore.Level
		File    string
		JSON    bool
		LineNum bool
	}
	Serve struct {
		Addr     string
		DataRoot string
	}
}

func NewOptions() *Options {
	o := &Options{
		Input:  "state.txt",
		Output: "state.png",
		Format: "json",
		Chart:  chart.DefaultOptions(),
	}
	o.Logger.Level = zapcore.InfoLevel
	o.Serve.Addr = ":8081"
	o.Serve.DataRoot = "./traces"
	return o
}

// NewViper returns a viper instance reading RAFTPLOT_* env vars, after
// loading a .env file from the working directory when there is one.
func NewViper(cfgFile string) (*viper.Viper, error) {
	_ = godotenv.Load()

	vp := viper.New()
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	if cfgFile != "" {
		vp.SetConfigFile(cfgFile)
		if err := vp.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	}
	return vp, nil
}

func (o *Options) ConfigureWithViper(vp *viper.Viper) error {
	o.vp = vp

	o.Input = o.getString("input", o.Input)
	o.Output = o.getString("output", o.Output)
	o.Format = strings.ToLower(o.getString("format", o.Format))

	o.Chart.Title = o.getString("chart.title", o.Chart.Title)
	o.Chart.XLabel = o.getString("chart.xLabel", o.Chart.XLabel)
	o.Chart.YLabel = o.getString("chart.yLabel", o.Chart.YLabel)
	o.Chart.FontSize = o.getFloat64("chart.fontSize", o.Chart.FontSize)
	o.Chart.Width = o.getFloat64("chart.width", o.Chart.Width)
	o.Chart.Height = o.getFloat64("chart.height", o.Chart.Height)
	o.Chart.DPI = o.getInt("chart.dpi", o.Chart.DPI)

	if lvl := o.getString("logger.level", ""); lvl != "" {
		l, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return errors.Wrapf(err, "logger.level %q", lvl)
		}
		o.Logger.Level = l
	}
	o.Logger.File = o.getString("logger.file", o.Logger.File)
	o.Logger.JSON = o.getBool("logger.json", o.Logger.JSON)
	o.Logger.LineNum = o.getBool("logger.lineNum", o.Logger.LineNum)

	o.Serve.Addr = o.getString("serve.addr", o.Serve.Addr)
	o.Serve.DataRoot = o.getString("serve.dataRoot", o.Serve.DataRoot)

	return o.check()
}

func (o *Options) check() error {
	if o.Chart.Width <= 0 || o.Chart.Height <= 0 {
		return errors.Errorf("chart size must be positive, got %gx%g", o.Chart.Width, o.Chart.Height)
	}
	if o.Chart.DPI <= 0 {
		return errors.Errorf("chart dpi must be positive, got %d", o.Chart.DPI)
	}
	if o.Chart.FontSize <= 0 {
		return errors.Errorf("chart font size must be positive, got %g", o.Chart.FontSize)
	}
	return nil
}

func (o *Options) LogOptions() *rlog.Options {
	lo := rlog.NewOptions()
	lo.Level = o.Logger.Level
	lo.File = o.Logger.File
	lo.JSON = o.Logger.JSON
	lo.LineNum = o.Logger.LineNum
	return lo
}

func (o *Options) getString(key string, defaultValue string) string {
	v := o.vp.GetString(key)
	if v == "" {
		return defaultValue
	}
	return v
}

func (o *Options) getFloat64(key string, defaultValue float64) float64 {
	v := o.vp.GetFloat64(key)
	if v == 0 {
		return defaultValue
	}
	return v
}

func (o *Options) getInt(key string, defaultValue int) int {
	v := o.vp.GetInt(key)
	if v == 0 {
		return defaultValue
	}
	return v
}

func (o *Options) getBool(key string, defaultValue bool) bool {
	if o.vp.Get(key) == nil {
		return defaultValue
	}
	return o.vp.GetBool(key)
}
