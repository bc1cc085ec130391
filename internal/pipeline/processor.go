package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
)

// ErrDocumentTimeout is returned when one document takes longer than the
// configured limit.
var ErrDocumentTimeout = errors.New("document processing timed out")

// Processor turns the bytes of one document into its outline. It is safe
// for concurrent use.
type Processor struct {
	extractor  *outline.Extractor
	parserOpts parser.Options
	timeout    time.Duration
	stats      *LatencyStats
	log        *slog.Logger
}

// NewProcessor builds a Processor. A zero timeout means no limit; stats
// may be nil.
func NewProcessor(ex *outline.Extractor, opts parser.Options, timeout time.Duration, stats *LatencyStats, log *slog.Logger) *Processor {
	return &Processor{
		extractor:  ex,
		parserOpts: opts,
		timeout:    timeout,
		stats:      stats,
		log:        log,
	}
}

// Stats returns the latency tracker, which may be nil.
func (p *Processor) Stats() *LatencyStats {
	return p.stats
}

// Process parses and extracts one document. phase, if not nil, is called
// as the document moves from parsing to extracting.
//
// Documents that cannot be read return the unreadable-document result
// together with the error; a decodable document without pages is not an
// error.
func (p *Processor) Process(ctx context.Context, filename string, data []byte, phase func(JobStatus)) (doctree.Result, error) {
	if phase == nil {
		phase = func(JobStatus) {}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	type outcome struct {
		res doctree.Result
		err error
	}
	// Parsers do not take a context, so the work runs on its own goroutine
	// and is abandoned on timeout.
	done := make(chan outcome, 1)
	start := time.Now()
	// The callback is dropped once the caller has given up on the document.
	report := func(s JobStatus) {
		if ctx.Err() == nil {
			phase(s)
		}
	}
	go func() {
		res, err := p.run(filename, data, report)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		if p.stats != nil {
			p.stats.Observe(start)
		}
		return o.res, o.err
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrDocumentTimeout, p.timeout)
		}
		p.log.Warn("document abandoned", "filename", filename, "error", err)
		return outline.UnreadableResult(filename), err
	}
}

func (p *Processor) run(filename string, data []byte, phase func(JobStatus)) (doctree.Result, error) {
	phase(StatusParsing)
	ps, err := parser.ForFile(filename, p.parserOpts)
	if err != nil {
		return outline.UnreadableResult(filename), err
	}
	doc, err := ps.Parse(bytes.NewReader(data), filename)
	if errors.Is(err, parser.ErrNoPages) {
		return outline.EmptyResult(), nil
	}
	if err != nil {
		return outline.UnreadableResult(filename), fmt.Errorf("parse: %w", err)
	}

	phase(StatusExtracting)
	return p.extractor.Extract(doc), nil
}
