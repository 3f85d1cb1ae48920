package bitbucketapi

// Page is one page of a Bitbucket paginated collection. Only the first page is ever read.
type Page[T any] struct {
	Values  []T    `json:"values"`
	Size    int    `json:"size,omitempty"`
	Page    int    `json:"page,omitempty"`
	PageLen int    `json:"pagelen,omitempty"`
	Next    string `json:"next,omitempty"`
}

type Link struct {
	Href string `json:"href"`
}

type Links struct {
	Self Link `json:"self"`
	HTML Link `json:"html"`
}

type User struct {
	UUID        string `json:"uuid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
}

type Group struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Repository struct {
	UUID        string `json:"uuid,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Size        int64  `json:"size"`
	IsPrivate   bool   `json:"is_private"`
	CreatedOn   string `json:"created_on"`
	UpdatedOn   string `json:"updated_on"`
	Links       Links  `json:"links"`
}

// PathName is the identifier used in repository URLs: the slug when known, otherwise the name.
func (r Repository) PathName() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.Name
}

type CommitAuthor struct {
	Raw  string `json:"raw,omitempty"`
	User *User  `json:"user,omitempty"`
}

// Name prefers the linked account's display name over the raw "Name <email>" string.
func (a *CommitAuthor) Name() string {
	if a == nil {
		return ""
	}
	if a.User != nil && a.User.DisplayName != "" {
		return a.User.DisplayName
	}
	return a.Raw
}

type CommitRef struct {
	Hash string `json:"hash"`
}

// Commit covers both list entries and the detailed single-commit payload
// (Parents and Committer are only filled in by the latter).
type Commit struct {
	Hash      string        `json:"hash"`
	Date      string        `json:"date"`
	Message   string        `json:"message"`
	Author    *CommitAuthor `json:"author,omitempty"`
	Committer *CommitAuthor `json:"committer,omitempty"`
	Parents   []CommitRef   `json:"parents,omitempty"`
	Links     Links         `json:"links"`
}

type BranchRestriction struct {
	ID      int     `json:"id"`
	Kind    string  `json:"kind"`
	Pattern string  `json:"pattern"`
	Value   *int    `json:"value,omitempty"`
	Users   []User  `json:"users,omitempty"`
	Groups  []Group `json:"groups,omitempty"`
}

// BranchSetting configures the development or production branch of a branching model.
type BranchSetting struct {
	Name          string `json:"name,omitempty"`
	UseMainbranch *bool  `json:"use_mainbranch,omitempty"`
	Enabled       *bool  `json:"enabled,omitempty"`
	IsValid       *bool  `json:"is_valid,omitempty"`
}

// BranchType is a branch naming rule; Kind is one of release, hotfix, feature, bugfix.
type BranchType struct {
	Kind    string `json:"kind"`
	Enabled *bool  `json:"enabled,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
}

type BranchingModelSettings struct {
	Development *BranchSetting `json:"development,omitempty"`
	Production  *BranchSetting `json:"production,omitempty"`
	BranchTypes []BranchType   `json:"branch_types,omitempty"`
}

type Project struct {
	UUID        string `json:"uuid,omitempty"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPrivate   bool   `json:"is_private"`
	CreatedOn   string `json:"created_on"`
	UpdatedOn   string `json:"updated_on"`
	Links       Links  `json:"links"`
}

type Branch struct {
	Name string `json:"name"`
}

type PullRequestEndpoint struct {
	Branch Branch `json:"branch"`
}

// PullRequest states: OPEN, MERGED, DECLINED (SUPERSEDED for legacy pull requests).
type PullRequest struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	State       string              `json:"state"`
	Author      User                `json:"author"`
	Source      PullRequestEndpoint `json:"source"`
	Destination PullRequestEndpoint `json:"destination"`
	CreatedOn   string              `json:"created_on"`
	UpdatedOn   string              `json:"updated_on"`
	Links       Links               `json:"links"`
}

type Workspace struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsPrivate bool   `json:"is_private"`
	CreatedOn string `json:"created_on,omitempty"`
	UpdatedOn string `json:"updated_on,omitempty"`
}
