// Package main implements the delete-testcases CLI tool for bulk-removing
// dataset test cases from Freeplay.
//
// Usage:
//
//	go run ./cmd/delete-testcases \
//	  --ids-file=ids.txt \
//	  --dataset-id=<uuid> --type=prompt \
//	  --project-id=<uuid>
//
// or with IDs as positional arguments:
//
//	go run ./cmd/delete-testcases --dataset-id=<uuid> <id> <id> ...
//
// IDs are deleted sequentially in batches of at most 100. A failed batch is
// reported and the run continues; the exit code is non-zero if any batch
// failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"freeplayctl/internal/config"
	"freeplayctl/internal/dataset"
	"freeplayctl/internal/freeplay"
	"freeplayctl/internal/types"
)

func main() {
	idsFile := flag.String("ids-file", "", "File with one test case ID per line ('#' comments and blank lines skipped)")
	datasetID := flag.String("dataset-id", "", "Target dataset ID")
	datasetType := flag.String("type", "prompt", "Dataset type: prompt or agent")
	batchSize := flag.Int("batch-size", freeplay.MaxBatchSize, fmt.Sprintf("IDs per request (1-%d)", freeplay.MaxBatchSize))
	projectID := flag.String("project-id", "", "Project ID (or FREEPLAY_PROJECT_ID env)")
	dryRun := flag.Bool("dry-run", false, "Resolve the ID list without deleting")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if *datasetID == "" {
		logger.Error("--dataset-id is required")
		flag.Usage()
		os.Exit(1)
	}

	dsType, err := types.ParseDatasetType(*datasetType)
	if err != nil {
		logger.Error("invalid --type", "error", err)
		os.Exit(1)
	}
	if err := dataset.ValidateBatchSize(*batchSize); err != nil {
		logger.Error("invalid --batch-size", "error", err)
		os.Exit(1)
	}

	project, err := cfg.RequireProject(*projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ids, err := resolveIDs(*idsFile, flag.Args())
	if err != nil {
		logger.Error("failed to resolve test case IDs", "error", err)
		os.Exit(1)
	}

	warnNonUUID(logger, "project-id", project)
	warnNonUUID(logger, "dataset-id", *datasetID)
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			logger.Warn("test case ID does not look like a UUID", "id", id)
		}
	}

	fmt.Printf("Deleting %d test cases from %s dataset %s\n", len(ids), *datasetType, *datasetID)

	if *dryRun {
		batches := dataset.Chunk(ids, *batchSize)
		fmt.Printf("Dry run: would delete %d test cases in %d batches\n", len(ids), len(batches))
		return
	}

	client := freeplay.NewClient(nil, freeplay.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.APIBase,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := &dataset.Runner{
		Client:    client,
		ProjectID: project,
		Ref:       types.DatasetRef{Type: dsType, ID: *datasetID},
		BatchSize: *batchSize,
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
		Logger:    logger,
	}

	logger.Info("starting delete",
		"dataset_id", *datasetID,
		"dataset_type", *datasetType,
		"ids", len(ids),
		"batch_size", *batchSize,
		"request_id", client.RequestID(),
	)

	res, err := runner.Delete(ctx, ids)
	if err != nil {
		logger.Error("delete aborted", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nDelete complete: %d/%d test cases deleted (%d/%d batches)\n",
		res.Succeeded, res.Items, res.BatchesOK, res.Batches)
	if !res.AllSucceeded() {
		os.Exit(1)
	}
}

// resolveIDs merges the --ids-file contents with positional arguments.
// At least one source must yield IDs.
func resolveIDs(idsFile string, args []string) ([]string, error) {
	var ids []string
	if idsFile != "" {
		fileIDs, err := dataset.LoadIDs(idsFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fileIDs...)
	}
	ids = append(ids, args...)
	if len(ids) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeInputEmpty,
			"no test case IDs given (use --ids-file or positional arguments)",
			nil,
		)
	}
	return ids, nil
}

func warnNonUUID(logger *slog.Logger, name, value string) {
	if uuid.Validate(value) != nil {
		logger.Warn("value does not look like a UUID", "flag", name, "value", value)
	}
}
