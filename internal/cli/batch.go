package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/export"
	"github.com/ppiankov/stratsearch/internal/logging"
	"github.com/ppiankov/stratsearch/internal/pipeline"
	"github.com/ppiankov/stratsearch/internal/worker"
)

var (
	outputDir    string
	batchFormat  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run several research requests from a file without prompts",
	Long: `Batch runs one research request per line of the input file:
- Blank lines and lines starting with # are skipped
- Duplicate requests run once
- Every approval gate is accepted automatically
- Each request is exported to its own file in the output directory

Example:
  stratsearch batch requests.txt
  stratsearch batch requests.txt --output-dir ./results --format csv
  stratsearch batch requests.txt --workers 8 --timeout 2h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./stratsearch-results", "output directory for exported tables")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: xlsx, csv, json (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Hour, "total timeout for batch processing")

	addRunFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = batchFormat
	}
	format := cfg.Output.Format
	if format == "" {
		format = export.FormatFromPath(cfg.Output.Path)
	}
	// Reject an unknown format before any request runs
	if _, err := export.NewSink(format, filepath.Join(outputDir, "check")); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	requests, err := worker.ReadLines(file)
	if err != nil {
		return fmt.Errorf("read requests: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Stratsearch Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Requests:     %d\n", len(requests))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	caps, err := buildCapabilities(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	successCount := 0
	failureCount := 0
	used := make(map[string]int)

	for i, request := range requests {
		name := uniqueName(requestSlug(request), used)
		path := filepath.Join(outputDir, name+export.Extension(format))

		sink, err := export.NewSink(format, path)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "⚙️  [%d/%d] %s\n", i+1, len(requests), request)
		p := pipeline.NewPipeline(cfg, caps, pipeline.AutoApprover{}, sink, logger)
		p.SetProgress(os.Stderr)

		result, err := p.Run(ctx, request)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", request, err)
			logger.Error("request failed", zap.String("request", request), zap.Error(err))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d strategies) → %s\n", request, len(result.Rows), path)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d requests\n", len(requests))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLen bounds generated file names
const maxSlugLen = 60

// requestSlug turns a request into a file name stem
func requestSlug(request string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(request), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		s = "request"
	}
	return s
}

// uniqueName appends -2, -3, ... to names already handed out
func uniqueName(name string, used map[string]int) string {
	used[name]++
	if n := used[name]; n > 1 {
		return fmt.Sprintf("%s-%d", name, n)
	}
	return name
}
