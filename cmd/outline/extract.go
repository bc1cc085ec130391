package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/doctree"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Print the outline of one or more documents",
	Long: `Prints the title and outline of each document, as JSON by default or as a
Markdown outline with --format markdown. Unreadable documents still print
their error result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

// extractFormat is the output format flag for the extract command.
var extractFormat string

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "Output format (json or markdown)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractFormat != "json" && extractFormat != "markdown" {
		return fmt.Errorf("unsupported format %q (want json or markdown)", extractFormat)
	}

	proc, log, err := newProcessor(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("read failed", "file", path, "error", err)
			failed++
			continue
		}
		res, err := proc.Process(cmd.Context(), path, data, nil)
		if err != nil {
			log.Error("extract failed", "file", path, "error", err)
			failed++
		}

		if extractFormat == "markdown" {
			if i > 0 {
				fmt.Fprintln(out)
			}
			io.WriteString(out, doctree.RenderMarkdown(res))
			continue
		}
		if err := writeJSON(out, res); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents could not be read", failed, len(args))
	}
	return nil
}

// writeJSON writes v indented by four spaces without escaping HTML
// characters.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
