package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
)

const maxLineSize = 1024 * 1024

// SourceOpener opens a named input for reading.
type SourceOpener interface {
	Open(name string) (io.ReadCloser, error)
}

// OpenError reports an input source that could not be opened. It aborts the run.
type OpenError struct {
	Source string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open source %s: %v", e.Source, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Options controls parsing and aggregation.
type Options struct {
	NumericMode domain.NumericMode
	MaxStates   int // 0 means unbounded
}

// Pipeline reads every source line by line, parses each line into an
// observation, and folds it into per-state aggregates.
type Pipeline struct {
	opener  SourceOpener
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options

	ready     atomic.Bool
	mu        sync.RWMutex
	summaries []domain.StateSummary
}

// New creates a Pipeline with the given source opener and observability.
func New(opener SourceOpener, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		opener:  opener,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once a run has completed, or an error describing
// why summaries are not available yet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("ingestion has not completed yet")
	}
	return nil
}

// Summaries returns the summaries from the last completed run. The boolean is
// false until a run has completed.
func (p *Pipeline) Summaries() ([]domain.StateSummary, bool) {
	if !p.ready.Load() {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.StateSummary(nil), p.summaries...), true
}

// Run ingests all sources in order and returns one summary per state code, in
// first-sighting order. Any open, read, or capacity error aborts the run and
// no summaries are produced.
func (p *Pipeline) Run(ctx context.Context, sources []string) ([]domain.StateSummary, error) {
	p.logger.Info("ingestion started", "sources", len(sources), "strict_numeric", p.opts.NumericMode == domain.Strict)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := domain.Clock().Now()
	agg := domain.NewAggregator(p.opts.MaxStates)

	for _, name := range sources {
		if err := p.ingestSource(ctx, name, agg); err != nil {
			return nil, err
		}
	}

	summaries := domain.SummarizeAll(agg.All())
	p.metrics.IngestDuration.Observe(domain.Clock().Since(start).Seconds())

	p.mu.Lock()
	p.summaries = summaries
	p.mu.Unlock()
	p.ready.Store(true)

	p.logger.Info("ingestion complete", "states", len(summaries))
	return summaries, nil
}

// ingestSource reads one source to the end, folding each valid line into agg.
func (p *Pipeline) ingestSource(ctx context.Context, name string, agg *domain.Aggregator) error {
	rc, err := p.opener.Open(name)
	if err != nil {
		return &OpenError{Source: name, Err: err}
	}
	defer rc.Close()

	p.logger.Info("opening source", "source", name)
	p.metrics.SourcesOpened.Inc()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNum++
		p.metrics.LinesRead.Inc()

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		obs, err := domain.ParseLine(line, p.opts.NumericMode)
		if err != nil {
			p.skipLine(name, lineNum, err)
			continue
		}

		if err := agg.Fold(obs); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNum, err)
		}
		p.metrics.ObservationsFolded.Inc()
		p.metrics.StatesTracked.Set(float64(agg.Len()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read source %s: %w", name, err)
	}
	return nil
}

func (p *Pipeline) skipLine(source string, lineNum int, err error) {
	reason := observability.ReasonMalformedLine
	if errors.Is(err, domain.ErrMalformedNumericField) {
		reason = observability.ReasonMalformedNumeric
	}
	p.logger.Warn("skipping line",
		"source", source,
		"line", lineNum,
		"reason", reason,
		"error", err,
	)
	p.metrics.LinesSkipped.WithLabelValues(reason).Inc()
}
