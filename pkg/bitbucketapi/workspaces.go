package bitbucketapi

import "context"

// ListWorkspaces returns the workspaces the authenticated user can access.
func (c *Client) ListWorkspaces(ctx context.Context) (*Page[Workspace], error) {
	var page Page[Workspace]
	if err := c.get(ctx, "/workspaces", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
