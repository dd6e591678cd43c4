package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"freeplayctl/internal/freeplay"
	"freeplayctl/internal/types"
)

// BulkClient is the slice of the Freeplay client the batch runner needs.
type BulkClient interface {
	BulkCreateTestCases(ctx context.Context, projectID string, ref types.DatasetRef, cases []types.TestCase) (int, error)
	BulkDeleteTestCases(ctx context.Context, projectID string, ref types.DatasetRef, ids []string) error
}

// Result aggregates the outcome of a batched operation. Failed batches do
// not abort the run, so Succeeded can be less than Items.
type Result struct {
	Items     int
	Succeeded int
	Batches   int
	BatchesOK int
}

// AllSucceeded reports whether every batch completed.
func (r Result) AllSucceeded() bool {
	return r.Batches == r.BatchesOK
}

// Runner performs sequential batched uploads and deletions against a single
// dataset, printing one progress line per batch. Batches run strictly in
// order; a failed batch is reported and the run continues with the next one.
type Runner struct {
	Client    BulkClient
	ProjectID string
	Ref       types.DatasetRef
	BatchSize int

	Out    io.Writer // per-batch progress
	ErrOut io.Writer // per-batch failures
	Logger *slog.Logger
}

// Chunk partitions items into consecutive slices of at most size elements,
// preserving order. The returned slices alias the input.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// ValidateBatchSize checks the 1..MaxBatchSize bound the bulk endpoints
// enforce. Callers planning a run (including dry runs) apply it before any
// chunking happens.
func ValidateBatchSize(size int) error {
	if size < 1 || size > freeplay.MaxBatchSize {
		return types.NewAppError(
			types.ErrCodeInputBatchSize,
			fmt.Sprintf("batch size must be between 1 and %d, got %d", freeplay.MaxBatchSize, size),
			nil,
		)
	}
	return nil
}

func (r *Runner) validate() error {
	return ValidateBatchSize(r.BatchSize)
}

// Upload creates cases in the dataset in order, one batch at a time.
func (r *Runner) Upload(ctx context.Context, cases []types.TestCase) (Result, error) {
	if err := r.validate(); err != nil {
		return Result{}, err
	}

	batches := Chunk(cases, r.BatchSize)
	res := Result{Items: len(cases), Batches: len(batches)}
	for i, batch := range batches {
		created, err := r.Client.BulkCreateTestCases(ctx, r.ProjectID, r.Ref, batch)
		if err != nil {
			fmt.Fprintf(r.ErrOut, "✗ Batch %d/%d failed: %v\n", i+1, len(batches), err)
			r.Logger.Error("batch upload failed",
				"batch", i+1, "batches", len(batches), "size", len(batch), "error", err)
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			continue
		}
		res.Succeeded += created
		res.BatchesOK++
		fmt.Fprintf(r.Out, "✓ Batch %d/%d: uploaded %d test cases\n", i+1, len(batches), created)
	}
	return res, nil
}

// Delete removes the given test case IDs from the dataset in order, one
// batch at a time.
func (r *Runner) Delete(ctx context.Context, ids []string) (Result, error) {
	if err := r.validate(); err != nil {
		return Result{}, err
	}

	batches := Chunk(ids, r.BatchSize)
	res := Result{Items: len(ids), Batches: len(batches)}
	for i, batch := range batches {
		if err := r.Client.BulkDeleteTestCases(ctx, r.ProjectID, r.Ref, batch); err != nil {
			fmt.Fprintf(r.ErrOut, "✗ Batch %d/%d failed: %v\n", i+1, len(batches), err)
			r.Logger.Error("batch delete failed",
				"batch", i+1, "batches", len(batches), "size", len(batch), "error", err)
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			continue
		}
		res.Succeeded += len(batch)
		res.BatchesOK++
		fmt.Fprintf(r.Out, "✓ Batch %d/%d: deleted %d test cases\n", i+1, len(batches), len(batch))
	}
	return res, nil
}
