package bitbucket

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/pkg/bitbucketapi"
)

const bitbucketAPIVersion = "2.0"

// Env is everything a handler needs. It is built once at startup and shared read-only.
type Env struct {
	Client    *bitbucketapi.Client
	Workspace string
	Log       logrus.FieldLogger
}

// BitbucketModule implements the Module interface for the Bitbucket Cloud API
type BitbucketModule struct {
	env *Env
}

// New creates a new BitbucketModule instance
func New(env *Env) *BitbucketModule {
	if env.Log == nil {
		env.Log = logrus.StandardLogger()
	}
	return &BitbucketModule{env: env}
}

// Module descriptions
var moduleDescriptions = modules.LocalizedText{
	"en-US": "Bitbucket Cloud API - Repository, Commit, Branch restriction, Project, Pull request, and Workspace operations",
	"ja-JP": "Bitbucket Cloud API - リポジトリ、コミット、ブランチ制限、プロジェクト、プルリクエスト、ワークスペース操作",
}

// Name returns the module name
func (m *BitbucketModule) Name() string {
	return "bitbucket"
}

// Descriptions returns the module descriptions in all languages
func (m *BitbucketModule) Descriptions() modules.LocalizedText {
	return moduleDescriptions
}

// Description returns the module description (English)
func (m *BitbucketModule) Description() string {
	return moduleDescriptions["en-US"]
}

// APIVersion returns the Bitbucket REST API version
func (m *BitbucketModule) APIVersion() string {
	return bitbucketAPIVersion
}

// Tools returns all available tools
func (m *BitbucketModule) Tools() []modules.Tool {
	return toolDefinitions
}

// ExecuteTool executes a tool by name and returns its text summary
func (m *BitbucketModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	handler, ok := toolHandlers[name]
	if !ok {
		return "", errors.Errorf("unknown tool: %s", name)
	}
	return handler(ctx, m.env, params)
}

// =============================================================================
// Tool Definitions
// =============================================================================

var (
	repositoryNameProp = modules.Property{Type: "string", Description: "Name of the repository (repo slug)"}
	projectKeyProp     = modules.Property{Type: "string", Description: "The key of the project."}
)

func limitProp(what string) modules.Property {
	return modules.Property{
		Type:        "number",
		Description: fmt.Sprintf("Maximum number of %s to return (default: %d, max: %d)", what, modules.DefaultLimit, modules.MaxLimit),
		Default:     modules.DefaultLimit,
		Minimum:     modules.Bound(1),
		Maximum:     modules.Bound(modules.MaxLimit),
	}
}

// branchingModelSettingsProp documents the settings document; it is PUT as given.
var branchingModelSettingsProp = modules.Property{
	Type:        "object",
	Description: "The branching model settings to update. Only passed properties will be updated. See Bitbucket API for details.",
	Properties: map[string]modules.Property{
		"development": {
			Type: "object",
			Properties: map[string]modules.Property{
				"use_mainbranch": {Type: "boolean"},
				"name":           {Type: "string"},
			},
		},
		"production": {
			Type: "object",
			Properties: map[string]modules.Property{
				"enabled":        {Type: "boolean"},
				"use_mainbranch": {Type: "boolean"},
				"name":           {Type: "string"},
			},
		},
		"branch_types": {
			Type: "array",
			Items: &modules.Property{
				Type: "object",
				Properties: map[string]modules.Property{
					"kind":    {Type: "string", Enum: []string{"release", "hotfix", "feature", "bugfix"}},
					"enabled": {Type: "boolean"},
					"prefix":  {Type: "string"},
				},
				Required: []string{"kind"},
			},
		},
	},
}

var toolDefinitions = []modules.Tool{
	// Repositories
	{
		ID:     "bitbucket:list_repositories",
		Name:   "list_repositories",
		Action: "fetching repositories",
		Descriptions: modules.LocalizedText{
			"en-US": "List all repositories in the configured Bitbucket workspace",
			"ja-JP": "設定されたBitbucketワークスペースのリポジトリを一覧表示します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"include_commit_info": {
					Type:        "boolean",
					Description: "Whether to include commit count and latest commit information for each repository",
					Default:     false,
				},
				"limit": limitProp("repositories"),
			},
		},
	},
	{
		ID:     "bitbucket:get_repository_commits",
		Name:   "get_repository_commits",
		Action: "fetching repository commits",
		Descriptions: modules.LocalizedText{
			"en-US": "Get commit information for a specific repository",
			"ja-JP": "指定したリポジトリのコミット情報を取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"limit":           limitProp("commits"),
			},
			Required: []string{"repository_name"},
		},
	},
	{
		ID:     "bitbucket:get_repository_details",
		Name:   "get_repository_details",
		Action: "fetching repository details",
		Descriptions: modules.LocalizedText{
			"en-US": "Get detailed information about a specific repository including latest commit info",
			"ja-JP": "最新コミット情報を含むリポジトリの詳細を取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
			},
			Required: []string{"repository_name"},
		},
	},
	// Commits
	{
		ID:     "bitbucket:get_commit",
		Name:   "get_commit",
		Action: "fetching commit",
		Descriptions: modules.LocalizedText{
			"en-US": "Get a single commit by its hash.",
			"ja-JP": "ハッシュを指定してコミットを取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"commit_hash":     {Type: "string", Description: "The hash of the commit."},
			},
			Required: []string{"repository_name", "commit_hash"},
		},
	},
	// Branch restrictions / branching model
	{
		ID:     "bitbucket:list_branch_restrictions",
		Name:   "list_branch_restrictions",
		Action: "fetching branch restrictions",
		Descriptions: modules.LocalizedText{
			"en-US": "List all branch restrictions for a repository.",
			"ja-JP": "リポジトリのブランチ制限を一覧表示します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
			},
			Required: []string{"repository_name"},
		},
	},
	{
		ID:     "bitbucket:get_branch_restriction",
		Name:   "get_branch_restriction",
		Action: "fetching branch restriction",
		Descriptions: modules.LocalizedText{
			"en-US": "Get a single branch restriction by its ID.",
			"ja-JP": "IDを指定してブランチ制限を取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"restriction_id":  {Type: "string", Description: "The ID of the branch restriction."},
			},
			Required: []string{"repository_name", "restriction_id"},
		},
	},
	{
		ID:     "bitbucket:update_repository_branching_model_settings",
		Name:   "update_repository_branching_model_settings",
		Action: "updating repository branching model settings",
		Descriptions: modules.LocalizedText{
			"en-US": "Update the branching model configuration for a repository.",
			"ja-JP": "リポジトリのブランチモデル設定を更新します。",
		},
		Annotations: modules.AnnotateReplace,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"settings":        branchingModelSettingsProp,
			},
			Required: []string{"repository_name", "settings"},
		},
	},
	{
		ID:     "bitbucket:update_project_branching_model_settings",
		Name:   "update_project_branching_model_settings",
		Action: "updating project branching model settings",
		Descriptions: modules.LocalizedText{
			"en-US": "Update the branching model configuration for a project.",
			"ja-JP": "プロジェクトのブランチモデル設定を更新します。",
		},
		Annotations: modules.AnnotateReplace,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"project_key": projectKeyProp,
				"settings":    branchingModelSettingsProp,
			},
			Required: []string{"project_key", "settings"},
		},
	},
	// Projects
	{
		ID:     "bitbucket:get_project",
		Name:   "get_project",
		Action: "fetching project",
		Descriptions: modules.LocalizedText{
			"en-US": "Get a single project by its key.",
			"ja-JP": "キーを指定してプロジェクトを取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"project_key": projectKeyProp,
			},
			Required: []string{"project_key"},
		},
	},
	{
		ID:     "bitbucket:list_default_reviewers",
		Name:   "list_default_reviewers",
		Action: "fetching default reviewers",
		Descriptions: modules.LocalizedText{
			"en-US": "List default reviewers for a project.",
			"ja-JP": "プロジェクトのデフォルトレビュアーを一覧表示します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"project_key": projectKeyProp,
			},
			Required: []string{"project_key"},
		},
	},
	// Pull requests
	{
		ID:     "bitbucket:list_pull_requests",
		Name:   "list_pull_requests",
		Action: "fetching pull requests",
		Descriptions: modules.LocalizedText{
			"en-US": "List all pull requests in a repository.",
			"ja-JP": "リポジトリのプルリクエストを一覧表示します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"state": {
					Type:        "string",
					Description: "The state of the pull request.",
					Enum:        []string{"OPEN", "MERGED", "DECLINED"},
				},
			},
			Required: []string{"repository_name"},
		},
	},
	{
		ID:     "bitbucket:get_pull_request",
		Name:   "get_pull_request",
		Action: "fetching pull request",
		Descriptions: modules.LocalizedText{
			"en-US": "Get a single pull request by its ID.",
			"ja-JP": "IDを指定してプルリクエストを取得します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"pull_request_id": {Type: "string", Description: "The ID of the pull request."},
			},
			Required: []string{"repository_name", "pull_request_id"},
		},
	},
	{
		ID:     "bitbucket:create_pull_request",
		Name:   "create_pull_request",
		Action: "creating pull request",
		Descriptions: modules.LocalizedText{
			"en-US": "Create a new pull request.",
			"ja-JP": "新しいプルリクエストを作成します。",
		},
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name":    repositoryNameProp,
				"title":              {Type: "string", Description: "The title of the pull request."},
				"source_branch":      {Type: "string", Description: "The source branch of the pull request."},
				"destination_branch": {Type: "string", Description: "The destination branch of the pull request."},
				"description":        {Type: "string", Description: "The description of the pull request."},
			},
			Required: []string{"repository_name", "title", "source_branch"},
		},
	},
	{
		ID:     "bitbucket:update_pull_request",
		Name:   "update_pull_request",
		Action: "updating pull request",
		Descriptions: modules.LocalizedText{
			"en-US": "Update an existing pull request.",
			"ja-JP": "既存のプルリクエストを更新します。",
		},
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"repository_name": repositoryNameProp,
				"pull_request_id": {Type: "string", Description: "The ID of the pull request."},
				"title":           {Type: "string", Description: "The new title of the pull request."},
				"description":     {Type: "string", Description: "The new description of the pull request."},
			},
			Required: []string{"repository_name", "pull_request_id"},
		},
	},
	// Workspaces
	{
		ID:     "bitbucket:list_workspaces",
		Name:   "list_workspaces",
		Action: "fetching workspaces",
		Descriptions: modules.LocalizedText{
			"en-US": "List all workspaces accessible by the current user.",
			"ja-JP": "現在のユーザーがアクセスできるワークスペースを一覧表示します。",
		},
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type:       "object",
			Properties: map[string]modules.Property{},
		},
	},
}

func init() {
	// Runtime description is the English text.
	for i := range toolDefinitions {
		toolDefinitions[i].Description = toolDefinitions[i].Descriptions["en-US"]
	}
}

// =============================================================================
// Tool Handlers
// =============================================================================

type toolHandler func(ctx context.Context, env *Env, params map[string]any) (string, error)

var toolHandlers = map[string]toolHandler{
	"list_repositories":                          listRepositories,
	"get_repository_commits":                     getRepositoryCommits,
	"get_repository_details":                     getRepositoryDetails,
	"get_commit":                                 getCommit,
	"list_branch_restrictions":                   listBranchRestrictions,
	"get_branch_restriction":                     getBranchRestriction,
	"update_repository_branching_model_settings": updateRepositoryBranchingModelSettings,
	"update_project_branching_model_settings":    updateProjectBranchingModelSettings,
	"get_project":                                getProject,
	"list_default_reviewers":                     listDefaultReviewers,
	"list_pull_requests":                         listPullRequests,
	"get_pull_request":                           getPullRequest,
	"create_pull_request":                        createPullRequest,
	"update_pull_request":                        updatePullRequest,
	"list_workspaces":                            listWorkspaces,
}
