// ABOUTME: CLI commands for exporting and importing patient data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/clinic/internal/display"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export patient data",
	Long: `Export patient data in various formats.

FORMATS:

  json       The snapshot document (suitable for backup/restore)
  yaml       The same fields as YAML
  markdown   A table with masked contact details (use --reveal to unmask)

EXAMPLES:

  clinic export json                        # Export all data as JSON
  clinic export json -o backup.json         # Save to file
  clinic export yaml                        # Export as YAML
  clinic export markdown -o patients.md     # Markdown report`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = store.ExportJSON()
		case "yaml":
			data, err = store.ExportYAML()
		case "markdown":
			md := display.Markdown(store.List(), store.Statistics(), display.Options{Reveal: reveal}, time.Now())
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			green.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import patients from a JSON or YAML export",
	Long: `Import patients from a previously exported file.

Files ending in .yaml or .yml are read as YAML, anything else as JSON.
Patients whose ID already exists are skipped. A malformed file imports
nothing.

EXAMPLES:

  clinic import backup.json
  clinic import patients.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		out := cmd.OutOrStdout()

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		result, err := store.Import(data, codecFor(filename))
		if len(result.Added) == 0 && err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		green.Fprintf(out, "✓ Imported %d patients from %s\n", len(result.Added), filename)
		if len(result.Skipped) > 0 {
			yellow.Fprintf(out, "✗ Skipped %d existing: %s\n", len(result.Skipped), strings.Join(result.Skipped, ", "))
		}
		if err != nil {
			return fmt.Errorf("imported patients not saved: %w", err)
		}
		return nil
	},
}

// codecFor picks the codec from the file extension.
func codecFor(filename string) storage.Codec {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return storage.YAMLCodec{}
	default:
		return storage.JSONCodec{}
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
