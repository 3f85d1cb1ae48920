package bitbucket

import (
	"context"

	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/modules"
)

func listBranchRestrictions(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")

	env.Log.WithField("repository", repoName).Debug("Fetching branch restrictions")
	page, err := env.Client.ListBranchRestrictions(ctx, env.Workspace, repoName)
	if err != nil {
		return "", err
	}
	return formatBranchRestrictionList(repoName, page.Values), nil
}

func getBranchRestriction(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	id := modules.StringParam(params, "restriction_id")

	env.Log.WithFields(logrus.Fields{"repository": repoName, "restriction": id}).Debug("Fetching branch restriction")
	restriction, err := env.Client.GetBranchRestriction(ctx, env.Workspace, repoName, id)
	if err != nil {
		return "", err
	}
	return formatBranchRestriction(restriction), nil
}

// updateRepositoryBranchingModelSettings PUTs the settings object exactly as supplied.
func updateRepositoryBranchingModelSettings(ctx context.Context, env *Env, params map[string]any) (string, error) {
	repoName := modules.StringParam(params, "repository_name")
	settings, _ := modules.ObjectParam(params, "settings")

	env.Log.WithField("repository", repoName).Info("Updating branching model")
	raw, err := env.Client.UpdateRepositoryBranchingModelSettings(ctx, env.Workspace, repoName, settings)
	if err != nil {
		return "", err
	}
	return formatBranchingModelUpdate("repository", repoName, raw), nil
}

func updateProjectBranchingModelSettings(ctx context.Context, env *Env, params map[string]any) (string, error) {
	projectKey := modules.StringParam(params, "project_key")
	settings, _ := modules.ObjectParam(params, "settings")

	env.Log.WithField("project", projectKey).Info("Updating branching model")
	raw, err := env.Client.UpdateProjectBranchingModelSettings(ctx, env.Workspace, projectKey, settings)
	if err != nil {
		return "", err
	}
	return formatBranchingModelUpdate("project", projectKey, raw), nil
}
