package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
)

// RecordFunc enriches one record in place
type RecordFunc func(ctx context.Context, rec *model.StrategyRecord) error

// RecordJob applies a RecordFunc to a single record
type RecordJob struct {
	Record *model.StrategyRecord
	Fn     RecordFunc
}

// Execute runs the function, turning a panic into an error
func (j *RecordJob) Execute(ctx context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &RecordResult{Record: j.Record, Error: fmt.Errorf("panic: %v", r)}
		}
	}()

	return &RecordResult{Record: j.Record, Error: j.Fn(ctx, j.Record)}
}

// RecordResult is the outcome of one RecordJob
type RecordResult struct {
	Record *model.StrategyRecord
	Error  error
}

// GetError returns the error from the record result
func (r *RecordResult) GetError() error {
	return r.Error
}

// BatchProcessor applies a stage function to every record of a collection.
// Each record is handled by exactly one worker and results come back in
// input order.
type BatchProcessor struct {
	concurrency int
}

// NewBatchProcessor creates a new batch processor. concurrency <= 1 runs
// records sequentially on the calling goroutine.
func NewBatchProcessor(concurrency int) *BatchProcessor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchProcessor{concurrency: concurrency}
}

// Concurrency returns the number of workers used per batch
func (b *BatchProcessor) Concurrency() int {
	return b.concurrency
}

// Process runs fn over records. The returned slice has one entry per record,
// at the record's index. A failing record never affects its siblings.
func (b *BatchProcessor) Process(ctx context.Context, records []*model.StrategyRecord, fn RecordFunc) []*RecordResult {
	out := make([]*RecordResult, len(records))
	if len(records) == 0 {
		return out
	}

	if b.concurrency == 1 || len(records) == 1 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				out[i] = &RecordResult{Record: rec, Error: err}
				continue
			}
			job := &RecordJob{Record: rec, Fn: fn}
			out[i] = job.Execute(ctx).(*RecordResult)
		}
		return out
	}

	workers := b.concurrency
	if workers > len(records) {
		workers = len(records)
	}

	pool := NewPool(ctx, workers)
	pool.Start()
	for _, rec := range records {
		pool.Submit(&RecordJob{Record: rec, Fn: fn})
	}

	for i, result := range pool.Wait() {
		if result == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &RecordResult{Record: records[i], Error: err}
			continue
		}
		out[i] = result.(*RecordResult)
	}

	return out
}

// ReadLines reads non-empty, non-comment lines from a file, deduplicated,
// in first-seen order
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
