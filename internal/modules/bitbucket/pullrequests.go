package bitbucket

import (
	"context"

	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/modules"
)

// Arguments consumed by the pull request handlers; anything else is forwarded in the request body.
var (
	createPullRequestArgs = []string{"repository_name", "title", "source_branch", "destination_branch", "description"}
	updatePullRequestArgs = []string{"repository_name", "pull_request_id", "title", "description"}
)

func listPullRequests(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	state := modules.StringParam(params, "state")

	env.Log.WithFields(logrus.Fields{"repository": repoName, "state": state}).Debug("Fetching pull requests")
	page, err := env.Client.ListPullRequests(ctx, env.Workspace, repoName, state)
	if err != nil {
		return "", err
	}
	return formatPullRequestList(repoName, state, page.Values), nil
}

func getPullRequest(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	id := modules.StringParam(params, "pull_request_id")

	env.Log.WithFields(logrus.Fields{"repository": repoName, "pull_request": id}).Debug("Fetching pull request")
	pr, err := env.Client.GetPullRequest(ctx, env.Workspace, repoName, id)
	if err != nil {
		return "", err
	}
	return formatPullRequest(pr), nil
}

func createPullRequest(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")

	body := passThrough(params, createPullRequestArgs)
	body["title"] = modules.StringParam(params, "title")
	body["source"] = branchRef(modules.StringParam(params, "source_branch"))
	if dest := modules.StringParam(params, "destination_branch"); dest != "" {
		body["destination"] = branchRef(dest)
	}
	if desc, ok := params["description"].(string); ok {
		body["description"] = desc
	}

	env.Log.WithField("repository", repoName).Info("Creating pull request")
	pr, err := env.Client.CreatePullRequest(ctx, env.Workspace, repoName, body)
	if err != nil {
		return "", err
	}
	return formatPullRequestChange("created", pr), nil
}

func updatePullRequest(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	id := modules.StringParam(params, "pull_request_id")

	body := passThrough(params, updatePullRequestArgs)
	if title := modules.StringParam(params, "title"); title != "" {
		body["title"] = title
	}
	if desc, ok := params["description"].(string); ok {
		body["description"] = desc
	}

	env.Log.WithFields(logrus.Fields{"repository": repoName, "pull_request": id}).Info("Updating pull request")
	pr, err := env.Client.UpdatePullRequest(ctx, env.Workspace, repoName, id, body)
	if err != nil {
		return "", err
	}
	return formatPullRequestChange("updated", pr), nil
}

func branchRef(name string) map[string]any {
	return map[string]any{"branch": map[string]any{"name": name}}
}

// passThrough copies every param not in consumed, untouched.
func passThrough(params map[string]any, consumed []string) map[string]any {
	skip := make(map[string]bool, len(consumed))
	for _, k := range consumed {
		skip[k] = true
	}
	body := make(map[string]any, len(params))
	for k, v := range params {
		if !skip[k] {
			body[k] = v
		}
	}
	return body
}
