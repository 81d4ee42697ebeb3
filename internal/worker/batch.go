package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// Grounder processes one transcript file into a grounding report.
type Grounder interface {
	ProcessFile(ctx context.Context, transcriptPath, claimsPath string) (*model.GroundingReport, error)
}

// GroundJob grounds a single transcript file.
type GroundJob struct {
	Path     string
	Grounder Grounder
}

// Execute runs the grounding job.
func (j *GroundJob) Execute(ctx context.Context) Result {
	// Claims path left empty: the pipeline resolves the sibling claims file.
	report, err := j.Grounder.ProcessFile(ctx, j.Path, "")
	return &GroundResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// GroundResult is the outcome of one grounding job.
type GroundResult struct {
	Path   string
	Report *model.GroundingReport
	Error  error
}

// GetError returns the error from the result.
func (r *GroundResult) GetError() error {
	return r.Error
}

// BatchProcessor grounds multiple transcript files concurrently. Concurrency
// applies across files only; within one file, allocation stays sequential.
type BatchProcessor struct {
	grounder    Grounder
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(grounder Grounder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		grounder:    grounder,
		concurrency: concurrency,
	}
}

// ProcessPaths grounds the given transcript files concurrently.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*GroundResult {
	if len(paths) == 0 {
		return []*GroundResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&GroundJob{
			Path:     path,
			Grounder: b.grounder,
		})
	}

	results := pool.Wait()

	groundResults := make([]*GroundResult, len(results))
	for i, result := range results {
		groundResults[i] = result.(*GroundResult)
	}

	return groundResults
}

// ProcessListFile reads transcript paths from a file and grounds them.
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*GroundResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads transcript paths from a file (one per line).
// Blank lines and #-comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
