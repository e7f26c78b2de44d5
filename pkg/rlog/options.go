package rlog

import "go.uber.org/zap/zapcore"

type Options struct {
	Level     zapcore.Level
	File      string // rotated log file, empty for console only
	JSON      bool   // JSON console output instead of the human readable encoder
	LineNum   bool
	NoConsole bool
}

func NewOptions() *Options {

	return &Options{Level: zapcore.InfoLevel}
}
