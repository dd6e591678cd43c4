package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeplayctl/internal/types"
)

// fakeBulkClient records batch calls and fails the batch indexes listed in
// failOn (0-based).
type fakeBulkClient struct {
	createCalls [][]types.TestCase
	deleteCalls [][]string
	failOn      map[int]bool
}

func (f *fakeBulkClient) BulkCreateTestCases(_ context.Context, _ string, _ types.DatasetRef, cases []types.TestCase) (int, error) {
	call := len(f.createCalls)
	f.createCalls = append(f.createCalls, cases)
	if f.failOn[call] {
		return 0, types.NewAppError(types.ErrCodeUpstreamRejected, "freeplay API returned 422: invalid inputs", nil)
	}
	return len(cases), nil
}

func (f *fakeBulkClient) BulkDeleteTestCases(_ context.Context, _ string, _ types.DatasetRef, ids []string) error {
	call := len(f.deleteCalls)
	f.deleteCalls = append(f.deleteCalls, ids)
	if f.failOn[call] {
		return types.NewAppError(types.ErrCodeUpstreamNotFound, "freeplay API returned 404: unknown dataset", nil)
	}
	return nil
}

func newTestRunner(client BulkClient, batchSize int, out, errOut io.Writer) *Runner {
	return &Runner{
		Client:    client,
		ProjectID: "proj-1",
		Ref:       types.DatasetRef{Type: types.DatasetPrompt, ID: "ds-1"},
		BatchSize: batchSize,
		Out:       out,
		ErrOut:    errOut,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func makeCases(n int) []types.TestCase {
	cases := make([]types.TestCase, n)
	for i := range cases {
		cases[i] = types.TestCase{Inputs: map[string]any{"question": fmt.Sprintf("q-%d", i)}}
	}
	return cases
}

func TestValidateBatchSize(t *testing.T) {
	for _, size := range []int{1, 50, 100} {
		assert.NoError(t, ValidateBatchSize(size), "size %d", size)
	}
	for _, size := range []int{0, -1, 101, 500} {
		err := ValidateBatchSize(size)
		require.Error(t, err, "size %d", size)

		var appErr *types.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, types.ErrCodeInputBatchSize, appErr.Code)
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	chunks := Chunk(items, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2}, chunks[0])
	assert.Equal(t, []int{3, 4}, chunks[1])
	assert.Equal(t, []int{5}, chunks[2])

	assert.Len(t, Chunk(items, 5), 1)
	assert.Len(t, Chunk(items, 100), 1)
	assert.Nil(t, Chunk([]int{}, 2))
	assert.Nil(t, Chunk(items, 0))
}

func TestUploadSplitsIntoBatches(t *testing.T) {
	client := &fakeBulkClient{}
	var out, errOut bytes.Buffer
	runner := newTestRunner(client, 100, &out, &errOut)

	res, err := runner.Upload(context.Background(), makeCases(250))
	require.NoError(t, err)

	require.Len(t, client.createCalls, 3)
	assert.Len(t, client.createCalls[0], 100)
	assert.Len(t, client.createCalls[1], 100)
	assert.Len(t, client.createCalls[2], 50)

	assert.Equal(t, 250, res.Items)
	assert.Equal(t, 250, res.Succeeded)
	assert.True(t, res.AllSucceeded())

	assert.Contains(t, out.String(), "Batch 1/3: uploaded 100 test cases")
	assert.Contains(t, out.String(), "Batch 3/3: uploaded 50 test cases")
	assert.Empty(t, errOut.String())
}

func TestUploadContinuesPastFailedBatch(t *testing.T) {
	client := &fakeBulkClient{failOn: map[int]bool{1: true}}
	var out, errOut bytes.Buffer
	runner := newTestRunner(client, 10, &out, &errOut)

	res, err := runner.Upload(context.Background(), makeCases(30))
	require.NoError(t, err)

	require.Len(t, client.createCalls, 3, "failed batch must not abort the run")
	assert.Equal(t, 20, res.Succeeded)
	assert.Equal(t, 2, res.BatchesOK)
	assert.False(t, res.AllSucceeded())

	assert.Contains(t, errOut.String(), "Batch 2/3 failed")
	assert.Contains(t, errOut.String(), "422")
}

func TestUploadRejectsBadBatchSize(t *testing.T) {
	for _, size := range []int{0, -1, 101} {
		client := &fakeBulkClient{}
		runner := newTestRunner(client, size, io.Discard, io.Discard)

		_, err := runner.Upload(context.Background(), makeCases(5))
		require.Error(t, err, "batch size %d", size)

		var appErr *types.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, types.ErrCodeInputBatchSize, appErr.Code)
		assert.Empty(t, client.createCalls, "no request may be issued for batch size %d", size)
	}
}

func TestUploadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeBulkClient{failOn: map[int]bool{0: true}}
	runner := newTestRunner(client, 10, io.Discard, io.Discard)

	_, err := runner.Upload(ctx, makeCases(30))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, client.createCalls, 1, "run must stop once the context is cancelled")
}

func TestDeleteSplitsIntoBatches(t *testing.T) {
	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}

	client := &fakeBulkClient{}
	var out, errOut bytes.Buffer
	runner := newTestRunner(client, 100, &out, &errOut)

	res, err := runner.Delete(context.Background(), ids)
	require.NoError(t, err)

	require.Len(t, client.deleteCalls, 2)
	assert.Len(t, client.deleteCalls[0], 100)
	assert.Len(t, client.deleteCalls[1], 50)
	assert.Equal(t, 150, res.Succeeded)
	assert.True(t, res.AllSucceeded())

	assert.Contains(t, out.String(), "Batch 2/2: deleted 50 test cases")
}

func TestDeleteContinuesPastFailedBatch(t *testing.T) {
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}

	client := &fakeBulkClient{failOn: map[int]bool{0: true}}
	var out, errOut bytes.Buffer
	runner := newTestRunner(client, 10, &out, &errOut)

	res, err := runner.Delete(context.Background(), ids)
	require.NoError(t, err)

	require.Len(t, client.deleteCalls, 2)
	assert.Equal(t, 10, res.Succeeded)
	assert.False(t, res.AllSucceeded())
	assert.Contains(t, errOut.String(), "Batch 1/2 failed")
	assert.Contains(t, out.String(), "Batch 2/2: deleted 10 test cases")
}
