// Command outline extracts the title and heading outline of documents
// from the command line.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "outline",
	Short:        "Extract titles and heading outlines from documents",
	Long:         `Reads PDF, DOCX, Markdown, HTML, CSV and text documents and prints their title and H1-H4 outline.`,
	SilenceUsage: true,
}

var (
	rulesFile         string
	logLevel          string
	documentTimeout   time.Duration
	pdftotextFallback bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rulesFile, "rules", "", "TOML file overriding the scoring rules")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.DurationVar(&documentTimeout, "timeout", 10*time.Second, "Time limit per document (0 disables)")
	flags.BoolVar(&pdftotextFallback, "pdftotext", false, "Retry unreadable PDFs with pdftotext -bbox-layout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newProcessor builds the extraction stack from the persistent flags.
// Logs go to the command's error stream.
func newProcessor(cmd *cobra.Command) (*pipeline.Processor, *slog.Logger, error) {
	log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: config.ParseLogLevel(logLevel),
	}))

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		return nil, nil, err
	}
	ex, err := outline.NewExtractor(rules, outline.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	proc := pipeline.NewProcessor(ex,
		parser.Options{PdftotextFallback: pdftotextFallback},
		documentTimeout,
		nil,
		log,
	)
	return proc, log, nil
}
