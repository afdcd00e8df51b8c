package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/stratsearch/internal/export"
	"github.com/ppiankov/stratsearch/internal/logging"
	"github.com/ppiankov/stratsearch/internal/model"
	"github.com/ppiankov/stratsearch/internal/pipeline"
)

var (
	outPath     string
	outFormat   string
	assumeYes   bool
	runTimeout  time.Duration
	llmProvider string
	llmModel    string
	workers     int
	httpProxy   string
	httpsProxy  string
	noRobots    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [request...]",
	Short: "Research national strategies for a request and export the results",
	Long: `Run takes a free-text research request and:
- Clarifies it into a focused research question
- Proposes country / strategy pairs for review
- Finds the official document for each strategy
- Extracts text from HTML pages and PDFs
- Summarizes each document and verifies every sentence against it
- Exports a table with one row per strategy

Every step that changes direction waits for your approval unless --yes is set.

Example:
  stratsearch run "urban rail strategies in Europe"
  stratsearch run --out results.csv "hydrogen mobility plans"
  stratsearch run --yes --llm-provider anthropic --llm-model claude-3-5-haiku-latest`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default from config: deep_search_results.xlsx)")
	runCmd.Flags().StringVar(&outFormat, "format", "", "output format: xlsx, csv, json (default: from --out extension)")
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "approve every gate without asking")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "overall run timeout")

	addRunFlags(runCmd)
}

// addRunFlags registers the flags shared by run and batch
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, none)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().IntVar(&workers, "workers", 0, "records processed concurrently per stage")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "do not consult robots.txt before fetching documents")
}

// applyRunFlags overrides cfg with the flags set on cmd
func applyRunFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		// The configured model belongs to the previous provider
		if !flags.Changed("llm-model") && !strings.EqualFold(llmProvider, "openai") {
			cfg.LLM.Model = ""
		}
		cfg.LLM.APIKey = ""
		applyCredentials(cfg)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("workers") {
		cfg.Concurrency.Workers = workers
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("no-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	if cmd.Flags().Changed("out") {
		cfg.Output.Path = outPath
		if !cmd.Flags().Changed("format") {
			cfg.Output.Format = ""
		}
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outFormat
	}

	sink, err := export.NewSink(cfg.Output.Format, cfg.Output.Path)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// One reader for the request and every gate
	stdin := bufio.NewReader(os.Stdin)

	request := strings.Join(args, " ")
	if len(args) == 0 {
		request, err = promptRequest(stdin, os.Stderr)
		if err != nil {
			return err
		}
	}

	var approver pipeline.Approver = pipeline.AutoApprover{}
	if !assumeYes {
		approver = NewTerminalApprover(stdin, os.Stderr)
	}

	p, err := buildPipeline(cfg, approver, sink, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	logger.Debug("run started",
		zap.String("request", request),
		zap.Int("workers", cfg.Concurrency.Workers),
		zap.String("output", cfg.Output.Path))

	result, err := p.Run(ctx, request)
	if errors.Is(err, pipeline.ErrHalted) {
		fmt.Fprintf(os.Stderr, "\nStopped at the %s step. Nothing was exported.\n", result.HaltedAt)
		return nil
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	printSummary(result, cfg.Output.Path)
	return nil
}

// promptRequest reads the research request from in. An empty answer is
// allowed and selects the default focus.
func promptRequest(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter your research request: ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read request: %w", err)
	}
	return strings.TrimSpace(line), nil
}
