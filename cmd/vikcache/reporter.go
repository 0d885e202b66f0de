package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/eak1mov/go-vikcache/convert"
)

// barReporter shows converted tiles on a progress bar and sends
// problems to the log.
type barReporter struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
	logger      *zap.Logger
}

func newBarReporter(w io.Writer, description string, logger *zap.Logger) *barReporter {
	return &barReporter{w: w, description: description, logger: logger}
}

// OnStart sizes the bar. Sources walked without counting get a spinner.
func (r *barReporter) OnStart(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
	)
}

func (r *barReporter) OnProgress(count int, _ time.Duration) {
	if r.bar == nil {
		r.OnStart(-1)
	}
	r.bar.Set(count)
}

func (r *barReporter) OnError(kind convert.ErrorKind, detail string) {
	if kind == convert.KindMalformed {
		r.logger.Debug("skipped", zap.String("path", detail))
		return
	}
	if r.bar != nil {
		r.bar.Clear()
	}
	r.logger.Warn(detail, zap.Stringer("kind", kind))
}

// finish counts preserved tiles as done so that a sized bar completes.
func (r *barReporter) finish(stats convert.Stats) {
	if r.bar == nil {
		return
	}
	r.bar.Set(stats.Tiles + stats.Preserved)
	r.bar.Finish()
}
