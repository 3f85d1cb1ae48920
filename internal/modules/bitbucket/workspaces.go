package bitbucket

import "context"

func listWorkspaces(ctx context.Context, env *Env, _ map[string]any) (string, error) {
	env.Log.Debug("Fetching workspaces")
	page, err := env.Client.ListWorkspaces(ctx)
	if err != nil {
		return "", err
	}
	return formatWorkspaceList(page.Values), nil
}
