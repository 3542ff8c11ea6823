// ABOUTME: Root Cobra command for clinic CLI.
// ABOUTME: Handles store lifecycle via PersistentPre/PostRunE.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/harperreed/clinic/internal/config"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var (
	store  *storage.Store
	logger = log.New(io.Discard)

	dataPath string
	verbose  bool
	reveal   bool
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

// Commands that never touch patient data.
var storeless = map[string]bool{
	"help":          true,
	"completion":    true,
	"install-skill": true,
}

var rootCmd = &cobra.Command{
	Use:   "clinic",
	Short: "Patient record manager",
	Long: `Clinic is a CLI tool for managing a small set of patient records.

QUICK START:

  $ clinic seed                                        # Load sample patients
  $ clinic add --name "Ada Byron" --age 36 --phone +1-555-0199
  $ clinic list                                        # All patients
  $ clinic show P001                                   # One patient in detail
  $ clinic search smith                                # Name, phone, or email
  $ clinic update P001 --age 36                        # Change selected fields
  $ clinic stats                                       # Count and age distribution
  $ clinic reading add P001 heart_rate 72              # Record a clinical reading

PRIVACY:

  Phone numbers and emails are masked, and address and medical history are
  hidden, unless --reveal is given.

MCP INTEGRATION:

  Run 'clinic mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "clinic": { "command": "clinic", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Records are kept in a single snapshot, rewritten on every change.
  Default: ~/.local/share/clinic/clinic_data.json

  Configure in ~/.config/clinic/config.json:
    {"backend": "json"}                          # default
    {"backend": "yaml"}                          # clinic_data.yaml
    {"backend": "sqlite"}                        # clinic.db
    {"backend": "charm"}                         # Charm KV with cloud sync
    {"data_file": "/path/to/clinic_data.json"}   # explicit location

  CLINIC_BACKEND, CLINIC_DATA_DIR and CLINIC_DATA_FILE override the file.
  --data overrides everything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)
		if storeless[cmd.Name()] {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		err := store.Close()
		store = nil
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "snapshot file path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity")
	rootCmd.PersistentFlags().BoolVar(&reveal, "reveal", false, "show contact details, address, and medical history")
}

func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "clinic",
		Level:  level,
	})
}

func openStore() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataPath != "" {
		cfg.DataFile = dataPath
	}

	s, err := cfg.OpenStore(logger)
	if s == nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err != nil {
		logger.Warn("starting with an empty store", "err", err)
	}
	store = s
	return nil
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// notSaved wraps a persistence failure after an in-memory change succeeded.
func notSaved(what, id string, err error) error {
	return fmt.Errorf("patient %s %s but not saved: %w", id, what, err)
}
