package bitbucketapi

import (
	"context"
	"net/http"
	"net/url"
)

// ListPullRequests lists pull requests; an empty state lets Bitbucket apply its default (OPEN).
func (c *Client) ListPullRequests(ctx context.Context, workspace, repoSlug, state string) (*Page[PullRequest], error) {
	var q url.Values
	if state != "" {
		q = url.Values{"state": {state}}
	}

	var page Page[PullRequest]
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "pullrequests"), q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPullRequest(ctx context.Context, workspace, repoSlug, id string) (*PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "pullrequests", id), nil, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreatePullRequest POSTs body as given. Callers build the source/destination structure.
func (c *Client) CreatePullRequest(ctx context.Context, workspace, repoSlug string, body map[string]any) (*PullRequest, error) {
	var pr PullRequest
	if err := c.do(ctx, http.MethodPost, pathOf("repositories", workspace, repoSlug, "pullrequests"), nil, body, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (c *Client) UpdatePullRequest(ctx context.Context, workspace, repoSlug, id string, body map[string]any) (*PullRequest, error) {
	var pr PullRequest
	if err := c.do(ctx, http.MethodPut, pathOf("repositories", workspace, repoSlug, "pullrequests", id), nil, body, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}
