package freeplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"freeplayctl/internal/types"
)

// Environments are the deployment targets a prompt template can be pushed to,
// in display order.
var Environments = []string{"dev", "staging", "production"}

// DeployedPrompts returns the prompt template versions deployed to one
// environment of a project. A 404 means nothing is deployed there and yields
// an empty result, not an error.
func (c *Client) DeployedPrompts(ctx context.Context, projectID, environment string) ([]types.DeployedPrompt, error) {
	path := fmt.Sprintf("/api/v2/projects/%s/prompt-templates/environments/%s", projectID, environment)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code == types.ErrCodeUpstreamNotFound {
			return nil, nil
		}
		return nil, err
	}

	prompts, err := decodeList[types.DeployedPrompt](raw)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to decode deployed prompt listing",
			err,
		)
	}
	return prompts, nil
}

// ListPromptTemplates returns every prompt template in a project, deployed
// or not.
func (c *Client) ListPromptTemplates(ctx context.Context, projectID string) ([]types.PromptTemplate, error) {
	path := fmt.Sprintf("/api/v2/projects/%s/prompt-templates", projectID)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	templates, err := decodeList[types.PromptTemplate](raw)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to decode prompt template listing",
			err,
		)
	}
	return templates, nil
}
