package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Write an outline file for every document in a directory",
	Long: `Processes every supported document in the input directory and writes
<name>.json with its title and outline to the output directory. Documents
that cannot be read get an error file instead. With --watch, documents
added later are processed until the command is interrupted.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchInput   string
	batchOutput  string
	batchWorkers int
	batchWatch   bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "Directory containing the documents")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Directory for the outline files")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", runtime.NumCPU(), "Documents processed in parallel")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "Keep processing documents added to the input directory")
	_ = batchCmd.MarkFlagRequired("input")
	_ = batchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(batchCmd)
}

// errorResult is written in place of an outline for unreadable documents.
type errorResult struct {
	Title   string                 `json:"title"`
	Outline []doctree.OutlineEntry `json:"outline"`
	Error   string                 `json:"error"`
}

type batcher struct {
	proc      *pipeline.Processor
	log       *slog.Logger
	outputDir string
	workers   int

	processed atomic.Int64
	failed    atomic.Int64
}

func runBatch(cmd *cobra.Command, _ []string) error {
	info, err := os.Stat(batchInput)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", batchInput)
	}
	if err := os.MkdirAll(batchOutput, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	proc, log, err := newProcessor(cmd)
	if err != nil {
		return err
	}
	b := &batcher{
		proc:      proc,
		log:       log,
		outputDir: batchOutput,
		workers:   max(batchWorkers, 1),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.processDir(ctx, batchInput); err != nil {
		return err
	}
	cmd.Printf("processed %d documents (%d failed)\n", b.processed.Load(), b.failed.Load())

	if !batchWatch {
		return nil
	}
	cmd.Printf("watching %s for new documents\n", batchInput)
	return b.watch(ctx, batchInput)
}

// processDir processes every supported document directly inside dir.
func (b *batcher) processDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read input directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, e := range entries {
		if e.IsDir() || !isDocument(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			return b.processFile(ctx, path)
		})
	}
	return g.Wait()
}

// processFile writes the outline, or an error result, for one document.
// Only failures to write the output are returned.
func (b *batcher) processFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	var v any

	data, err := os.ReadFile(path)
	if err == nil {
		v, err = b.proc.Process(ctx, path, data, nil)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		b.log.Error("document failed", "file", name, "error", err)
		b.failed.Add(1)
		v = errorResult{
			Title:   "Error processing " + name,
			Outline: []doctree.OutlineEntry{},
			Error:   err.Error(),
		}
	}
	b.processed.Add(1)

	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	out := filepath.Join(b.outputDir, outputName(name))
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	b.log.Info("outline written", "file", name, "output", out)
	return nil
}

// outputName maps a document name to its outline file name.
func outputName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
}

func isDocument(name string) bool {
	return !strings.HasPrefix(name, ".") && parser.IsSupportedExtension(name)
}
