// Package main implements the import-testcases CLI tool for bulk-uploading
// dataset test cases to Freeplay.
//
// Usage:
//
//	go run ./cmd/import-testcases \
//	  --file=testcases.jsonl \
//	  --dataset-id=<uuid> --type=prompt \
//	  --project-id=<uuid> --batch-size=100
//
// Environment variables (see internal/config):
//
//	FREEPLAY_API_KEY     - Freeplay API key (required)
//	FREEPLAY_API_BASE    - API base URL, e.g. https://app.freeplay.ai/api (required)
//	FREEPLAY_PROJECT_ID  - default project when --project-id is not set
//
// The tool reads a .jsonl or .csv file (optionally gzipped), validates every
// test case up front, then uploads sequentially in batches of at most 100.
// A failed batch is reported and the run continues; the exit code is non-zero
// if any batch failed.
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
	file := flag.String("file", "", "Path to test cases (.jsonl, .csv, or gzipped variants)")
	datasetID := flag.String("dataset-id", "", "Target dataset ID")
	datasetType := flag.String("type", "prompt", "Dataset type: prompt or agent")
	batchSize := flag.Int("batch-size", freeplay.MaxBatchSize, fmt.Sprintf("Test cases per request (1-%d)", freeplay.MaxBatchSize))
	projectID := flag.String("project-id", "", "Project ID (or FREEPLAY_PROJECT_ID env)")
	dryRun := flag.Bool("dry-run", false, "Load and validate the file without uploading")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if *file == "" {
		logger.Error("--file is required")
		flag.Usage()
		os.Exit(1)
	}
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

	// IDs in the v2 API are UUIDs. A non-UUID value is almost always a copy
	// paste mistake, but the API stays the authority, so only warn.
	warnNonUUID(logger, "project-id", project)
	warnNonUUID(logger, "dataset-id", *datasetID)

	cases, err := dataset.LoadFile(*file)
	if err != nil {
		logger.Error("failed to load test cases", "file", *file, "error", err)
		os.Exit(1)
	}
	if err := dataset.Validate(cases); err != nil {
		logger.Error("invalid test cases", "file", *file, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d test cases from %s\n", len(cases), *file)

	if *dryRun {
		batches := dataset.Chunk(cases, *batchSize)
		fmt.Printf("Dry run: would upload %d test cases in %d batches to %s dataset %s\n",
			len(cases), len(batches), *datasetType, *datasetID)
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

	logger.Info("starting upload",
		"dataset_id", *datasetID,
		"dataset_type", *datasetType,
		"cases", len(cases),
		"batch_size", *batchSize,
		"request_id", client.RequestID(),
	)

	res, err := runner.Upload(ctx, cases)
	if err != nil {
		logger.Error("upload aborted", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nUpload complete: %d/%d test cases uploaded (%d/%d batches)\n",
		res.Succeeded, res.Items, res.BatchesOK, res.Batches)
	if !res.AllSucceeded() {
		os.Exit(1)
	}
}

// warnNonUUID flags IDs that do not look like the UUIDs the v2 API issues.
func warnNonUUID(logger *slog.Logger, name, value string) {
	if uuid.Validate(value) != nil {
		logger.Warn("value does not look like a UUID", "flag", name, "value", value)
	}
}
