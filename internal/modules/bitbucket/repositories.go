package bitbucket

import (
	"context"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/pkg/bitbucketapi"
)

// repositoryWithCommitInfo is a repository plus the optional commit enrichment.
// A nil LatestCommit means no commit info (empty repository or failed lookup).
type repositoryWithCommitInfo struct {
	bitbucketapi.Repository
	CommitCount  int
	LatestCommit *bitbucketapi.Commit
}

func listRepositories(ctx context.Context, env *Env, params map[string]any) (string, error) {
	includeCommitInfo := modules.BoolParam(params, "include_commit_info", false)
	limit := modules.LimitParam(params, "limit")

	env.Log.WithField("workspace", env.Workspace).Debug("Fetching repositories")
	page, err := env.Client.ListRepositories(ctx, env.Workspace, limit)
	if err != nil {
		return "", err
	}

	repos := make([]repositoryWithCommitInfo, len(page.Values))
	for i, r := range page.Values {
		repos[i].Repository = r
	}
	if includeCommitInfo {
		enrichWithCommitInfo(ctx, env, repos)
	}
	return formatRepositoryList(env.Workspace, repos, includeCommitInfo), nil
}

// enrichWithCommitInfo looks up commit info for every repository in parallel.
// Each worker writes only its own slice element, so the input order is kept.
// A failed lookup leaves that repository with zero commit info.
func enrichWithCommitInfo(ctx context.Context, env *Env, repos []repositoryWithCommitInfo) {
	if len(repos) == 0 {
		return
	}
	wp := workerpool.New(len(repos))
	for i := range repos {
		repo := &repos[i]
		wp.Submit(func() {
			latest, count, err := fetchCommitInfo(ctx, env, repo.PathName())
			if err != nil {
				env.Log.WithError(err).WithField("repository", repo.Name).Warn("Error fetching commit info")
				return
			}
			repo.LatestCommit = latest
			repo.CommitCount = count
		})
	}
	wp.StopWait()
}

// fetchCommitInfo requests the first commit page twice: once for the newest commit
// and once for the total count.
func fetchCommitInfo(ctx context.Context, env *Env, repoSlug string) (*bitbucketapi.Commit, int, error) {
	latest, err := env.Client.ListCommits(ctx, env.Workspace, repoSlug, 1)
	if err != nil {
		return nil, 0, err
	}
	count, err := env.Client.ListCommits(ctx, env.Workspace, repoSlug, 1)
	if err != nil {
		return nil, 0, err
	}

	var commit *bitbucketapi.Commit
	if len(latest.Values) > 0 {
		commit = &latest.Values[0]
	}
	return commit, count.Size, nil
}

func getRepositoryCommits(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	limit := modules.LimitParam(params, "limit")

	env.Log.WithField("repository", repoName).Debug("Fetching commits")
	page, err := env.Client.ListCommits(ctx, env.Workspace, repoName, limit)
	if err != nil {
		return "", err
	}

	total := page.Size
	if total == 0 {
		total = len(page.Values)
	}
	return formatCommitList(repoName, page.Values, total), nil
}

func getRepositoryDetails(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")

	env.Log.WithField("repository", repoName).Debug("Fetching repository details")

	var (
		g       errgroup.Group
		repo    *bitbucketapi.Repository
		commits *bitbucketapi.Page[bitbucketapi.Commit]
	)
	g.Go(func() error {
		var err error
		repo, err = env.Client.GetRepository(ctx, env.Workspace, repoName)
		return err
	})
	g.Go(func() error {
		var err error
		commits, err = env.Client.ListCommits(ctx, env.Workspace, repoName, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	var latest *bitbucketapi.Commit
	if len(commits.Values) > 0 {
		latest = &commits.Values[0]
	}
	return formatRepositoryDetails(repo, latest, commits.Size), nil
}

func getCommit(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	hash := modules.StringParam(params, "commit_hash")

	env.Log.WithFields(logrus.Fields{"repository": repoName, "commit": hash}).Debug("Fetching commit")
	commit, err := env.Client.GetCommit(ctx, env.Workspace, repoName, hash)
	if err != nil {
		return "", err
	}
	return formatCommitDetails(commit), nil
}
