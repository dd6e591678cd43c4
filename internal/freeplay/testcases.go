package freeplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"freeplayctl/internal/types"
)

// bulkCreateRequest is the envelope for the bulk test-case create endpoint.
type bulkCreateRequest struct {
	Data []types.TestCase `json:"data"`
}

// bulkCreateResponse echoes the created test cases. Only the count is used;
// the entries themselves are left undecoded.
type bulkCreateResponse struct {
	Data []json.RawMessage `json:"data"`
}

// bulkDeleteRequest is the envelope for the bulk test-case delete endpoint.
type bulkDeleteRequest struct {
	TestCaseIDs []string `json:"test_case_ids"`
}

// bulkPath builds the bulk test-cases URL path for one dataset.
func bulkPath(projectID string, ref types.DatasetRef) string {
	return fmt.Sprintf("/api/v2/projects/%s/%s/%s/test-cases/bulk", projectID, ref.Type, ref.ID)
}

// BulkCreateTestCases uploads one batch of test cases to a dataset and
// returns the number of cases the API reports as created. The batch must
// already respect MaxBatchSize; this is a guard, not a chunking layer.
func (c *Client) BulkCreateTestCases(ctx context.Context, projectID string, ref types.DatasetRef, cases []types.TestCase) (int, error) {
	if len(cases) == 0 {
		return 0, nil
	}
	if len(cases) > MaxBatchSize {
		return 0, types.NewAppError(
			types.ErrCodeInputBatchSize,
			fmt.Sprintf("batch of %d exceeds the API limit of %d", len(cases), MaxBatchSize),
			nil,
		)
	}

	var resp bulkCreateResponse
	err := c.do(ctx, http.MethodPost, bulkPath(projectID, ref), bulkCreateRequest{Data: cases}, &resp)
	if err != nil {
		return 0, err
	}
	return len(resp.Data), nil
}

// BulkDeleteTestCases deletes one batch of test cases from a dataset by ID.
// The batch must already respect MaxBatchSize.
func (c *Client) BulkDeleteTestCases(ctx context.Context, projectID string, ref types.DatasetRef, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > MaxBatchSize {
		return types.NewAppError(
			types.ErrCodeInputBatchSize,
			fmt.Sprintf("batch of %d exceeds the API limit of %d", len(ids), MaxBatchSize),
			nil,
		)
	}

	return c.do(ctx, http.MethodDelete, bulkPath(projectID, ref), bulkDeleteRequest{TestCaseIDs: ids}, nil)
}
