package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/logging"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/pipeline"
)

var (
	claimsPath  string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	noValidate  bool
	backendList string
	maxBytes    int64
)

// groundCmd represents the ground command
var groundCmd = &cobra.Command{
	Use:   "ground <transcript>",
	Short: "Ground one transcript's claims in exact, attributed quotations",
	Long: `Ground reads a transcript and its claims file, then:
- Splits the transcript into per-speaker scopes
- Assigns each claim up to three non-overlapping sentence spans
- Promotes accepted spans to byte-exact, speaker-attributed quotations
- Validates every quotation against the full source text

Example:
  axwise ground interview.txt
  axwise ground interview.txt --claims persona.claims.json --json report.json
  axwise ground interview.txt --backends openai,anthropic --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	rootCmd.AddCommand(groundCmd)

	groundCmd.Flags().StringVar(&claimsPath, "claims", "", "claims file (default: sibling <transcript>.claims.{json,yaml})")
	groundCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	groundCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	groundCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")
	groundCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verdict cache")
	groundCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	groundCmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip backend consensus (lexical layers only)")
	groundCmd.Flags().StringVar(&backendList, "backends", "", "comma-separated consensus backends (openai, anthropic, ollama)")
	groundCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max transcript bytes to read")
}

func runGround(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p := pipeline.NewPipeline(cfg, logger)

	report, err := p.ProcessFile(ctx, args[0], claimsPath)
	if err != nil {
		return fmt.Errorf("ground %s: %w", args[0], err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(report)

	return nil
}

// buildConfig assembles the run configuration from defaults, environment,
// and flags. Backend API keys come from the environment only; they are never
// written to config files.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Cache.Enabled = !noCache
	cfg.Ingest.MaxBytes = maxBytes

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = home + "/.axwise/cache"
		}
	}

	if noValidate || backendList == "" {
		return cfg, nil
	}

	for _, name := range strings.Split(backendList, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}

		backend := model.BackendConfig{Provider: name}
		switch name {
		case "openai":
			backend.APIKey = os.Getenv("OPENAI_API_KEY")
			if backend.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			backend.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if backend.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				backend.BaseURL = baseURL
			}
		default:
			return nil, fmt.Errorf("unknown backend: %s (supported: openai, anthropic, ollama)", name)
		}

		cfg.LLM.Backends = append(cfg.LLM.Backends, backend)
	}

	return cfg, nil
}
