package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MajorE-Garage/arbshift/internal/model"
	"github.com/MajorE-Garage/arbshift/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	catalogPath    string
	outJSON        string
	withRecords    bool
	workers        int
	noCache        bool
	scanTimeout    time.Duration
	reference      string
	llmEnabled     bool
	llmProvider    string
	llmModel       string
	llmBaseURL     string
	excludeFlags   []string
	excludeSuffixf []string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Analyze a source tree without changing anything",
	Long: `Scan discovers source files, extracts string literals, classifies them,
and reports what an apply run would do: which strings would be added to the
catalog under which keys, which would be replaced, and which need manual
review. No file is modified.

Example:
  arbshift scan
  arbshift scan lib --json report.json
  arbshift scan --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addPipelineFlags(scanCmd)
}

// addPipelineFlags registers the flags shared by scan and apply.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog file path (default from config)")
	cmd.Flags().StringVar(&outJSON, "json", "", "also write a JSON report to this path")
	cmd.Flags().BoolVar(&withRecords, "records", false, "include every string record in the JSON report")
	cmd.Flags().IntVar(&workers, "workers", 0, "extraction worker count (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scan cache (force fresh extraction)")
	cmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Minute, "overall run timeout")
	cmd.Flags().StringVar(&reference, "reference", "", "symbolic reference prefix (default from config)")
	cmd.Flags().StringArrayVar(&excludeFlags, "exclude", nil, "additional path substrings to exclude")
	cmd.Flags().StringArrayVar(&excludeSuffixf, "exclude-suffix", nil, "additional filename suffixes to exclude")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable advisory LLM review of deferred strings")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	cmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "override API base URL (e.g. local Ollama)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	report, err := p.Scan(ctx)
	if err != nil {
		return err
	}
	return renderReport(report, cfg)
}

// buildConfig merges defaults, the config file, environment and flags.
func buildConfig(cmd *cobra.Command, args []string) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(args) == 1 {
		cfg.Scan.Root = args[0]
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if workers > 0 {
		cfg.Scan.Workers = workers
	}
	if noCache {
		cfg.Scan.CacheEnabled = false
	}
	if reference != "" {
		cfg.Rewrite.Reference = reference
	}
	cfg.Scan.Exclude = append(cfg.Scan.Exclude, excludeFlags...)
	cfg.Scan.ExcludeSuffixes = append(cfg.Scan.ExcludeSuffixes, excludeSuffixf...)
	cfg.Output.Verbose = verbose
	cfg.Output.JSONPath = outJSON
	cfg.Output.IncludeRecords = withRecords

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.BaseURL = llmBaseURL

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" && llmBaseURL == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && llmBaseURL == "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	} else {
		cfg.LLM.Provider = ""
	}

	return cfg, nil
}

func renderReport(report *model.Report, cfg *model.Config) error {
	renderer := pipeline.NewRenderer(os.Stdout)
	renderer.RenderSummary(report)
	if cfg.Output.JSONPath != "" {
		if err := renderer.RenderJSON(report, cfg.Output.JSONPath, cfg.Output.IncludeRecords); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output.JSONPath).Msg("wrote JSON report")
	}
	return nil
}
