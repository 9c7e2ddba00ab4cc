package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/worker"
)

var (
	checkFile    string
	checkOutput  string
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [claim...]",
	Short: "Fact-check claims from arguments or a file",
	Long: `Check runs claims through the same batch processor as the HTTP API
and prints the batch report to stdout.

Claims come from the arguments (1-50) or from --file (one claim per line,
at most 100 lines and 100,000 characters). Blank lines are skipped.

Example:
  veritas check "The Eiffel Tower is in Paris" "The moon is made of cheese"
  veritas check --file claims.txt --output yaml
  veritas check --file claims.txt --timeout 5m`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read claims from file, one per line")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "json", "output format (json, yaml)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if (checkFile == "") == (len(args) == 0) {
		return fmt.Errorf("provide claims as arguments or with --file, not both")
	}
	if checkOutput != "json" && checkOutput != "yaml" {
		return fmt.Errorf("unsupported output format %q (supported: json, yaml)", checkOutput)
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, cfg.Dispatch.Concurrency, logger)

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Checking claims with %s/%s (%d workers)...\n",
		p.Provider().Name(), p.Provider().Model(), cfg.Dispatch.Concurrency)

	var report *model.BatchReport
	if checkFile != "" {
		report, err = processor.ProcessFile(ctx, checkFile)
	} else {
		facts := make([]any, len(args))
		for i, a := range args {
			facts[i] = a
		}
		report, err = processor.ProcessFacts(ctx, facts)
	}
	if err != nil {
		return err
	}

	if err := writeReport(os.Stdout, report, checkOutput); err != nil {
		return err
	}

	succeeded := report.Succeeded()
	fmt.Fprintf(os.Stderr, "✓ %d checked, %d failed (batch %s)\n", succeeded, report.Processed-succeeded, report.ID)
	return nil
}

// writeReport renders report as indented JSON or YAML
func writeReport(w io.Writer, report *model.BatchReport, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
