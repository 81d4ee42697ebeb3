package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/logging"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/pipeline"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/worker"
)

var (
	batchOutDir      string
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Ground many transcripts concurrently",
	Long: `Batch grounds every transcript in a directory, or every path listed
in a file (one per line, #-comments allowed). Each transcript needs a
sibling claims file (<name>.claims.json or .claims.yaml).

Concurrency applies across files; allocation within a file is always
sequential.

Example:
  axwise batch ./interviews --out ./reports
  axwise batch transcripts.txt --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutDir, "out", "reports", "output directory for JSON reports")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "number of transcripts processed in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")

	batchCmd.Flags().StringVar(&backendList, "backends", "", "comma-separated consensus backends (openai, anthropic, ollama)")
	batchCmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip backend consensus (lexical layers only)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verdict cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
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

	paths, err := collectTranscriptPaths(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no transcripts found in %s", args[0])
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, batchConcurrency)
	results := processor.ProcessPaths(ctx, paths)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		outPath := filepath.Join(batchOutDir, pipeline.DocumentID(result.Path)+".json")
		if err := renderer.RenderJSON(result.Report, outPath); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}
		fmt.Printf("✓ %s → %s\n", result.Path, outPath)
	}

	fmt.Printf("\nProcessed %d transcripts, %d failed\n", len(results), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d transcripts failed", failures, len(results))
	}
	return nil
}

// collectTranscriptPaths expands the argument into transcript paths: a
// directory yields its transcript files (claims files excluded), anything
// else is treated as a path-list file.
func collectTranscriptPaths(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}

	if !info.IsDir() {
		return worker.ReadPathsFromFile(arg)
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.Contains(name, ".claims.") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt", ".md", ".html", ".htm":
			paths = append(paths, filepath.Join(arg, name))
		}
	}
	sort.Strings(paths)

	return paths, nil
}
