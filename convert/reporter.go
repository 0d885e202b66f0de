package convert

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorKind classifies problems reported during a run.
type ErrorKind int

const (
	KindConfig ErrorKind = iota
	KindConflict
	KindStore
	KindMalformed
	KindDuplicate
	KindNoTiles
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	case KindMalformed:
		return "malformed"
	case KindDuplicate:
		return "duplicate"
	case KindNoTiles:
		return "no-tiles"
	}
	return "unknown"
}

// Reporter observes a conversion run. Calls are serialised by the converter.
type Reporter interface {
	// OnStart is called once the source is opened. total is the number of
	// tiles to convert, or -1 when the source is walked without counting.
	OnStart(total int)
	// OnProgress is called every progressInterval tiles.
	OnProgress(count int, elapsed time.Duration)
	OnError(kind ErrorKind, detail string)
}

type nopReporter struct{}

func (nopReporter) OnStart(int)                    {}
func (nopReporter) OnProgress(int, time.Duration) {}
func (nopReporter) OnError(ErrorKind, string)     {}

type logReporter struct {
	logger *zap.Logger
}

// NewLogReporter returns a Reporter writing to logger. Skipped source entries
// are logged at debug level only.
func NewLogReporter(logger *zap.Logger) Reporter {
	return &logReporter{logger: logger}
}

func (r *logReporter) OnStart(total int) {
	if total < 0 {
		r.logger.Info("starting")
		return
	}
	r.logger.Info("starting", zap.Int("total", total))
}

func (r *logReporter) OnProgress(count int, elapsed time.Duration) {
	r.logger.Info("progress",
		zap.Int("tiles", count),
		zap.Float64("tiles_per_sec", rate(count, elapsed)),
	)
}

func (r *logReporter) OnError(kind ErrorKind, detail string) {
	if kind == KindMalformed {
		r.logger.Debug("skipped", zap.String("path", detail))
		return
	}
	r.logger.Warn(detail, zap.Stringer("kind", kind))
}

func rate(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}

// progressInterval is the number of tiles between progress reports.
const progressInterval = 100

// tracker counts tiles for a single run and forwards events to the reporter.
// It is shared by the column workers of the standard layout conversions.
type tracker struct {
	mu       sync.Mutex
	reporter Reporter
	start    time.Time
	stats    Stats
}

func newTracker(reporter Reporter) *tracker {
	return &tracker{reporter: reporter, start: time.Now()}
}

func (t *tracker) begin(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reporter.OnStart(total)
}

func (t *tracker) converted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Tiles++
	if t.stats.Tiles%progressInterval == 0 {
		t.reporter.OnProgress(t.stats.Tiles, time.Since(t.start))
	}
}

func (t *tracker) preserved(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Preserved += n
}

func (t *tracker) skipped(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Skipped++
	t.reporter.OnError(KindMalformed, path)
}

func (t *tracker) report(kind ErrorKind, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reporter.OnError(kind, detail)
}

func (t *tracker) result() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.stats
	stats.Elapsed = time.Since(t.start)
	return stats
}
