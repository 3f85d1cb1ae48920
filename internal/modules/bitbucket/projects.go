package bitbucket

import (
	"context"

	"bitbucket-mcp/server/internal/modules"
)

func getProject(ctx context.Context, env *Env, params map[string]any) (string, error) {
	key := modules.StringParam(params, "project_key")

	env.Log.WithField("project", key).Debug("Fetching project")
	project, err := env.Client.GetProject(ctx, env.Workspace, key)
	if err != nil {
		return "", err
	}
	return formatProject(project), nil
}

func listDefaultReviewers(ctx context.Context, env *Env, params map[string]any) (string, error) {
	key := modules.StringParam(params, "project_key")

	env.Log.WithField("project", key).Debug("Fetching default reviewers")
	page, err := env.Client.ListDefaultReviewers(ctx, env.Workspace, key)
	if err != nil {
		return "", err
	}
	return formatDefaultReviewers(key, page.Values), nil
}
