package bitbucketapi

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) GetProject(ctx context.Context, workspace, projectKey string) (*Project, error) {
	var project Project
	if err := c.get(ctx, pathOf("workspaces", workspace, "projects", projectKey), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) ListDefaultReviewers(ctx context.Context, workspace, projectKey string) (*Page[User], error) {
	var page Page[User]
	if err := c.get(ctx, pathOf("workspaces", workspace, "projects", projectKey, "default-reviewers"), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateProjectBranchingModelSettings PUTs settings unchanged and returns the raw response.
func (c *Client) UpdateProjectBranchingModelSettings(ctx context.Context, workspace, projectKey string, settings any) (json.RawMessage, error) {
	var raw json.RawMessage
	path := pathOf("workspaces", workspace, "projects", projectKey, "branching-model", "settings")
	if err := c.do(ctx, http.MethodPut, path, nil, settings, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
