package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// handbook is a Markdown document with a title and two sections.
var handbook = []byte(strings.Join([]string{
	"# Operations Handbook",
	"",
	"## 1. Introduction",
	"",
	strings.Repeat("The committee reviews every delivery plan with each partner before the quarter starts. ", 8),
	"",
	"## 2. Scope of Work",
	"",
	strings.Repeat("Each regional office reports progress against the agreed milestones every month. ", 8),
}, "\n"))

func newTestProcessor(t *testing.T, timeout time.Duration) *Processor {
	t.Helper()
	ex, err := outline.NewExtractor(outline.DefaultRules())
	require.NoError(t, err)
	return NewProcessor(ex, parser.Options{}, timeout, NewLatencyStats(time.Hour), discardLog)
}

// fakeSink records stored outlines and fails the first failures calls
// with err.
type fakeSink struct {
	mu       sync.Mutex
	stored   []pathstore.StoredOutline
	calls    int
	failures int
	err      error
}

func (s *fakeSink) PutOutline(_ context.Context, out pathstore.StoredOutline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return s.err
	}
	s.stored = append(s.stored, out)
	return nil
}
