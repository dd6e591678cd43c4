package freeplay

import (
	"context"
	"encoding/json"
	"net/http"

	"freeplayctl/internal/types"
)

// ListProjects returns every project visible to the API key. Depending on
// deployment version the endpoint answers with either a bare array or a
// data-wrapped object; both shapes are accepted.
func (c *Client) ListProjects(ctx context.Context) ([]types.Project, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v2/projects", nil, &raw); err != nil {
		return nil, err
	}

	projects, err := decodeList[types.Project](raw)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to decode project listing",
			err,
		)
	}
	return projects, nil
}
