package bitbucket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/pkg/bitbucketapi"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05 UTC"
)

// =============================================================================
// Repositories / Commits
// =============================================================================

func formatRepositoryList(workspace string, repos []repositoryWithCommitInfo, withCommitInfo bool) string {
	summary := fmt.Sprintf("Found %d repositories in workspace \"%s\"", len(repos), workspace)
	if withCommitInfo {
		summary += " (with commit information)"
	}

	blocks := make([]string, 0, len(repos))
	for _, r := range repos {
		var sb strings.Builder
		fmt.Fprintf(&sb, "**%s**\n", r.Name)
		fmt.Fprintf(&sb, "- Full Name: %s\n", r.FullName)
		fmt.Fprintf(&sb, "- Description: %s\n", orDefault(r.Description, "No description"))
		fmt.Fprintf(&sb, "- Language: %s\n", orDefault(r.Language, "Not specified"))
		fmt.Fprintf(&sb, "- Size: %s\n", sizeKB(r.Size))
		fmt.Fprintf(&sb, "- Private: %s\n", yesNo(r.IsPrivate))
		fmt.Fprintf(&sb, "- Created: %s\n", formatDate(r.CreatedOn))
		fmt.Fprintf(&sb, "- Updated: %s\n", formatDate(r.UpdatedOn))
		fmt.Fprintf(&sb, "- URL: %s", r.Links.HTML.Href)
		if withCommitInfo {
			c := r.LatestCommit
			latestDate := "No commits"
			if c != nil && c.Date != "" {
				latestDate = formatDate(c.Date)
			}
			fmt.Fprintf(&sb, "\n- Commit Count: %d", r.CommitCount)
			fmt.Fprintf(&sb, "\n- Latest Commit: %s", latestDate)
			fmt.Fprintf(&sb, "\n- Latest Commit Hash: %s", orDefault(commitHash(c), "N/A"))
			fmt.Fprintf(&sb, "\n- Latest Commit Author: %s", orDefault(commitAuthor(c), "N/A"))
			fmt.Fprintf(&sb, "\n- Latest Commit Message: %s", orDefault(commitMessage(c), "N/A"))
		}
		blocks = append(blocks, sb.String())
	}
	return joinSections(summary, blocks)
}

func formatCommitList(repoName string, commits []bitbucketapi.Commit, total int) string {
	summary := fmt.Sprintf("Found %d recent commits (out of %d total) in repository \"%s\"", len(commits), total, repoName)

	blocks := make([]string, 0, len(commits))
	for i, c := range commits {
		blocks = append(blocks, fmt.Sprintf("**Commit %d**\n- Hash: %s\n- Date: %s\n- Author: %s\n- Message: %s",
			i+1, c.Hash, formatDateTime(c.Date), c.Author.Name(), firstLine(c.Message)))
	}
	return joinSections(summary, blocks)
}

// formatRepositoryDetails renders repository metadata merged with its newest commit (nil when empty).
func formatRepositoryDetails(repo *bitbucketapi.Repository, latest *bitbucketapi.Commit, totalCommits int) string {
	latestDate := "No commits"
	if latest != nil && latest.Date != "" {
		latestDate = formatDateTime(latest.Date)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Repository Details: %s**\n\n", repo.Name)
	sb.WriteString("**Basic Information:**\n")
	fmt.Fprintf(&sb, "- Full Name: %s\n", repo.FullName)
	fmt.Fprintf(&sb, "- Description: %s\n", orDefault(repo.Description, "No description"))
	fmt.Fprintf(&sb, "- Language: %s\n", orDefault(repo.Language, "Not specified"))
	fmt.Fprintf(&sb, "- Size: %s\n", sizeKB(repo.Size))
	fmt.Fprintf(&sb, "- Private: %s\n", yesNo(repo.IsPrivate))
	fmt.Fprintf(&sb, "- Created: %s\n", formatDateTime(repo.CreatedOn))
	fmt.Fprintf(&sb, "- Last Updated: %s\n", formatDateTime(repo.UpdatedOn))
	fmt.Fprintf(&sb, "- URL: %s\n\n", repo.Links.HTML.Href)
	sb.WriteString("**Commit Information:**\n")
	fmt.Fprintf(&sb, "- Total Commits: %d\n", totalCommits)
	fmt.Fprintf(&sb, "- Latest Commit Date: %s\n", latestDate)
	fmt.Fprintf(&sb, "- Latest Commit Hash: %s\n", orDefault(commitHash(latest), "N/A"))
	fmt.Fprintf(&sb, "- Latest Commit Author: %s\n", orDefault(commitAuthor(latest), "N/A"))
	fmt.Fprintf(&sb, "- Latest Commit Message: %s", orDefault(commitMessage(latest), "N/A"))
	return sb.String()
}

func formatCommitDetails(c *bitbucketapi.Commit) string {
	parents := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		parents = append(parents, p.Hash)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Commit Details: %s**\n", c.Hash)
	fmt.Fprintf(&sb, "- Author: %s\n", c.Author.Name())
	if committer := c.Committer.Name(); committer != "" && committer != c.Author.Name() {
		fmt.Fprintf(&sb, "- Committer: %s\n", committer)
	}
	fmt.Fprintf(&sb, "- Date: %s\n", formatDateTime(c.Date))
	fmt.Fprintf(&sb, "- Message: %s\n", strings.TrimRight(c.Message, "\n"))
	fmt.Fprintf(&sb, "- Parents: %s", strings.Join(parents, ", "))
	return sb.String()
}

// =============================================================================
// Branch restrictions / branching model
// =============================================================================

func formatBranchRestrictionList(repoName string, restrictions []bitbucketapi.BranchRestriction) string {
	summary := fmt.Sprintf("Found %d branch restrictions in repository \"%s\"", len(restrictions), repoName)

	blocks := make([]string, 0, len(restrictions))
	for _, r := range restrictions {
		blocks = append(blocks, fmt.Sprintf("**Restriction %d**\n- Kind: %s\n- Pattern: %s", r.ID, r.Kind, r.Pattern))
	}
	return joinSections(summary, blocks)
}

func formatBranchRestriction(r *bitbucketapi.BranchRestriction) string {
	users := make([]string, 0, len(r.Users))
	for _, u := range r.Users {
		users = append(users, u.DisplayName)
	}
	groups := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		groups = append(groups, g.Name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Restriction Details: %d**\n", r.ID)
	fmt.Fprintf(&sb, "- Kind: %s\n", r.Kind)
	fmt.Fprintf(&sb, "- Pattern: %s\n", r.Pattern)
	if r.Value != nil {
		fmt.Fprintf(&sb, "- Value: %d\n", *r.Value)
	}
	fmt.Fprintf(&sb, "- Users: %s\n", orDefault(strings.Join(users, ", "), "None"))
	fmt.Fprintf(&sb, "- Groups: %s", orDefault(strings.Join(groups, ", "), "None"))
	return sb.String()
}

// formatBranchingModelUpdate confirms the update, summarizes the settings Bitbucket
// reports back, and appends the full response.
func formatBranchingModelUpdate(scope, name string, raw json.RawMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Successfully updated branching model settings for %s \"%s\".", scope, name)

	var settings bitbucketapi.BranchingModelSettings
	if err := json.Unmarshal(raw, &settings); err == nil {
		if s := settings.Development; s != nil && s.Name != "" {
			fmt.Fprintf(&sb, "\n- Development: %s", s.Name)
		}
		if s := settings.Production; s != nil && s.Name != "" {
			fmt.Fprintf(&sb, "\n- Production: %s", s.Name)
		}
		if len(settings.BranchTypes) > 0 {
			types := make([]string, 0, len(settings.BranchTypes))
			for _, bt := range settings.BranchTypes {
				if bt.Enabled != nil && !*bt.Enabled {
					continue
				}
				types = append(types, fmt.Sprintf("%s (%s)", bt.Kind, bt.Prefix))
			}
			fmt.Fprintf(&sb, "\n- Branch Types: %s", orDefault(strings.Join(types, ", "), "None enabled"))
		}
	}

	if len(raw) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(modules.ToPrettyJSON(raw))
	}
	return sb.String()
}

// =============================================================================
// Projects
// =============================================================================

func formatProject(p *bitbucketapi.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Project Details: %s**\n", p.Name)
	fmt.Fprintf(&sb, "- Key: %s\n", p.Key)
	fmt.Fprintf(&sb, "- Description: %s\n", orDefault(p.Description, "No description"))
	fmt.Fprintf(&sb, "- Private: %t\n", p.IsPrivate)
	fmt.Fprintf(&sb, "- Created: %s\n", formatDate(p.CreatedOn))
	fmt.Fprintf(&sb, "- Updated: %s\n", formatDate(p.UpdatedOn))
	fmt.Fprintf(&sb, "- URL: %s", p.Links.HTML.Href)
	return sb.String()
}

func formatDefaultReviewers(projectKey string, reviewers []bitbucketapi.User) string {
	summary := fmt.Sprintf("Found %d default reviewers in project \"%s\"", len(reviewers), projectKey)

	lines := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		lines = append(lines, fmt.Sprintf("- %s (%s)", r.DisplayName, r.Nickname))
	}
	if len(lines) == 0 {
		return summary
	}
	return summary + "\n\n" + strings.Join(lines, "\n")
}

// =============================================================================
// Pull requests
// =============================================================================

func formatPullRequestList(repoName, state string, prs []bitbucketapi.PullRequest) string {
	summary := fmt.Sprintf("Found %d pull requests in repository \"%s\"", len(prs), repoName)
	if state != "" {
		summary += " with state " + state
	}

	blocks := make([]string, 0, len(prs))
	for i := range prs {
		blocks = append(blocks, pullRequestBlock(fmt.Sprintf("PR #%d: %s", prs[i].ID, prs[i].Title), &prs[i], false))
	}
	return joinSections(summary, blocks)
}

func formatPullRequest(pr *bitbucketapi.PullRequest) string {
	return pullRequestBlock(fmt.Sprintf("PR #%d: %s", pr.ID, pr.Title), pr, true)
}

// formatPullRequestChange confirms a create or update; verb is "created" or "updated".
func formatPullRequestChange(verb string, pr *bitbucketapi.PullRequest) string {
	return pullRequestBlock(fmt.Sprintf("Successfully %s PR #%d: %s", verb, pr.ID, pr.Title), pr, false)
}

func pullRequestBlock(header string, pr *bitbucketapi.PullRequest, withDescription bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", header)
	fmt.Fprintf(&sb, "- State: %s\n", pr.State)
	fmt.Fprintf(&sb, "- Author: %s\n", pr.Author.DisplayName)
	fmt.Fprintf(&sb, "- Source: %s\n", pr.Source.Branch.Name)
	fmt.Fprintf(&sb, "- Destination: %s\n", pr.Destination.Branch.Name)
	if withDescription {
		fmt.Fprintf(&sb, "- Description: %s\n", pr.Description)
	}
	fmt.Fprintf(&sb, "- URL: %s", pr.Links.HTML.Href)
	return sb.String()
}

// =============================================================================
// Workspaces
// =============================================================================

func formatWorkspaceList(workspaces []bitbucketapi.Workspace) string {
	summary := fmt.Sprintf("Found %d workspaces.", len(workspaces))

	blocks := make([]string, 0, len(workspaces))
	for _, w := range workspaces {
		blocks = append(blocks, fmt.Sprintf("**%s**\n- Slug: %s\n- Private: %t", w.Name, w.Slug, w.IsPrivate))
	}
	return joinSections(summary, blocks)
}

// =============================================================================
// Helpers
// =============================================================================

// joinSections puts the summary line first and separates item blocks with blank lines.
func joinSections(summary string, blocks []string) string {
	if len(blocks) == 0 {
		return summary
	}
	return summary + "\n\n" + strings.Join(blocks, "\n\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func sizeKB(bytes int64) string {
	return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func parseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func formatDate(s string) string {
	if t, ok := parseTime(s); ok {
		return t.Format(dateLayout)
	}
	return s
}

func formatDateTime(s string) string {
	if t, ok := parseTime(s); ok {
		return t.Format(dateTimeLayout)
	}
	return s
}

func commitHash(c *bitbucketapi.Commit) string {
	if c == nil {
		return ""
	}
	return c.Hash
}

func commitAuthor(c *bitbucketapi.Commit) string {
	if c == nil {
		return ""
	}
	return c.Author.Name()
}

func commitMessage(c *bitbucketapi.Commit) string {
	if c == nil {
		return ""
	}
	return strings.TrimRight(c.Message, "\n")
}
