package bitbucketapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// ListRepositories returns the first page of a workspace's repositories, most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, workspace string, pageLen int) (*Page[Repository], error) {
	q := url.Values{}
	q.Set("pagelen", strconv.Itoa(pageLen))
	q.Set("sort", "-updated_on")

	var page Page[Repository]
	if err := c.get(ctx, pathOf("repositories", workspace), q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetRepository(ctx context.Context, workspace, repoSlug string) (*Repository, error) {
	var repo Repository
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// ListCommits returns the first page of commits, newest first. Page.Size carries the
// total commit count when Bitbucket reports it.
func (c *Client) ListCommits(ctx context.Context, workspace, repoSlug string, pageLen int) (*Page[Commit], error) {
	q := url.Values{}
	q.Set("pagelen", strconv.Itoa(pageLen))

	var page Page[Commit]
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "commits"), q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetCommit(ctx context.Context, workspace, repoSlug, hash string) (*Commit, error) {
	var commit Commit
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "commit", hash), nil, &commit); err != nil {
		return nil, err
	}
	return &commit, nil
}

func (c *Client) ListBranchRestrictions(ctx context.Context, workspace, repoSlug string) (*Page[BranchRestriction], error) {
	var page Page[BranchRestriction]
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "branch-restrictions"), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetBranchRestriction(ctx context.Context, workspace, repoSlug, id string) (*BranchRestriction, error) {
	var restriction BranchRestriction
	if err := c.get(ctx, pathOf("repositories", workspace, repoSlug, "branch-restrictions", id), nil, &restriction); err != nil {
		return nil, err
	}
	return &restriction, nil
}

// UpdateRepositoryBranchingModelSettings PUTs settings unchanged and returns the raw response.
func (c *Client) UpdateRepositoryBranchingModelSettings(ctx context.Context, workspace, repoSlug string, settings any) (json.RawMessage, error) {
	var raw json.RawMessage
	path := pathOf("repositories", workspace, repoSlug, "branching-model", "settings")
	if err := c.do(ctx, http.MethodPut, path, nil, settings, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
