package bitbucket

import (
	"encoding/json"
	"strings"
	"testing"

	"bitbucket-mcp/server/pkg/bitbucketapi"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in       string
		date     string
		dateTime string
	}{
		{"2024-06-30T18:45:12.123456+00:00", "2024-06-30", "2024-06-30 18:45:12 UTC"},
		{"2024-06-30T23:30:00+02:00", "2024-06-30", "2024-06-30 21:30:00 UTC"},
		{"2024-01-01T00:30:00-05:00", "2024-01-01", "2024-01-01 05:30:00 UTC"},
		{"not a date", "not a date", "not a date"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := formatDate(tt.in); got != tt.date {
			t.Errorf("formatDate(%q) = %q, want %q", tt.in, got, tt.date)
		}
		if got := formatDateTime(tt.in); got != tt.dateTime {
			t.Errorf("formatDateTime(%q) = %q, want %q", tt.in, got, tt.dateTime)
		}
	}
}

func TestSizeKB(t *testing.T) {
	tests := map[int64]string{
		0:       "0.00 KB",
		512:     "0.50 KB",
		1536:    "1.50 KB",
		1048576: "1024.00 KB",
	}
	for in, want := range tests {
		if got := sizeKB(in); got != want {
			t.Errorf("sizeKB(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestOrDefault(t *testing.T) {
	if got := orDefault("", "N/A"); got != "N/A" {
		t.Errorf("empty: got %q", got)
	}
	if got := orDefault("   ", "N/A"); got != "N/A" {
		t.Errorf("blank: got %q", got)
	}
	if got := orDefault("go", "N/A"); got != "go" {
		t.Errorf("set: got %q", got)
	}
}

func TestEmptyListsPrintOnlySummary(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"repositories", formatRepositoryList("acme", nil, true), `Found 0 repositories in workspace "acme" (with commit information)`},
		{"commits", formatCommitList("api", nil, 0), `Found 0 recent commits (out of 0 total) in repository "api"`},
		{"restrictions", formatBranchRestrictionList("api", nil), `Found 0 branch restrictions in repository "api"`},
		{"reviewers", formatDefaultReviewers("PRJ", nil), `Found 0 default reviewers in project "PRJ"`},
		{"pull requests", formatPullRequestList("api", "", nil), `Found 0 pull requests in repository "api"`},
		{"workspaces", formatWorkspaceList(nil), "Found 0 workspaces."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestSummariesQuoteNamesLiterally(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"quote", formatRepositoryList(`ac"me`, nil, false), `Found 0 repositories in workspace "ac"me"`},
		{"backslash", formatCommitList(`a\pi`, nil, 0), `Found 0 recent commits (out of 0 total) in repository "a\pi"`},
		{"unicode", formatBranchRestrictionList("дизайн", nil), `Found 0 branch restrictions in repository "дизайн"`},
		{"tab", formatDefaultReviewers("P\tQ", nil), "Found 0 default reviewers in project \"P\tQ\""},
		{"pull requests", formatPullRequestList(`it's`, "", nil), `Found 0 pull requests in repository "it's"`},
		{"branching model", formatBranchingModelUpdate("repository", `x"y`, nil), `Successfully updated branching model settings for repository "x"y".`},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestFormatCommitDetails_CommitterSameAsAuthor(t *testing.T) {
	author := &bitbucketapi.CommitAuthor{Raw: "Alice <alice@example.com>"}
	got := formatCommitDetails(&bitbucketapi.Commit{
		Hash:      "abc",
		Date:      "2024-06-29T12:00:00+00:00",
		Message:   "Root commit",
		Author:    author,
		Committer: author,
	})
	want := "**Commit Details: abc**\n- Author: Alice <alice@example.com>\n- Date: 2024-06-29 12:00:00 UTC\n- Message: Root commit\n- Parents: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatCommitList_MissingAuthor(t *testing.T) {
	got := formatCommitList("api", []bitbucketapi.Commit{{Hash: "abc", Message: "x"}}, 1)
	if !strings.Contains(got, "- Author: \n") {
		t.Errorf("expected empty author line, got %q", got)
	}
}

func TestFormatBranchRestriction_Value(t *testing.T) {
	two := 2
	got := formatBranchRestriction(&bitbucketapi.BranchRestriction{
		ID:      9,
		Kind:    "require_approvals_to_merge",
		Pattern: "main",
		Value:   &two,
		Groups:  []bitbucketapi.Group{{Name: "Developers"}},
	})
	want := "**Restriction Details: 9**\n- Kind: require_approvals_to_merge\n- Pattern: main\n- Value: 2\n- Users: None\n- Groups: Developers"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatBranchingModelUpdate(t *testing.T) {
	t.Run("no enabled branch types", func(t *testing.T) {
		raw := json.RawMessage(`{"production":{"name":"release"},"branch_types":[{"kind":"bugfix","enabled":false}]}`)
		got := formatBranchingModelUpdate("project", "PRJ", raw)
		head := "Successfully updated branching model settings for project \"PRJ\".\n- Production: release\n- Branch Types: None enabled\n\n"
		if !strings.HasPrefix(got, head) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("non-object response", func(t *testing.T) {
		got := formatBranchingModelUpdate("repository", "api", json.RawMessage(`not json`))
		want := "Successfully updated branching model settings for repository \"api\".\n\nnot json"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		got := formatBranchingModelUpdate("repository", "api", nil)
		want := "Successfully updated branching model settings for repository \"api\"."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
