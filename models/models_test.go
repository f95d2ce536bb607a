package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRepoRef(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		fallback string
		expected RepoRef
	}{
		{
			name:     "full name",
			input:    "alice/widgets",
			fallback: "bob",
			expected: RepoRef{FullName: "alice/widgets", Owner: "alice", Name: "widgets"},
		},
		{
			name:     "bare name uses fallback owner",
			input:    "widgets",
			fallback: "bob",
			expected: RepoRef{FullName: "bob/widgets", Owner: "bob", Name: "widgets"},
		},
		{
			name:     "extra slash stays in name",
			input:    "org/group/repo",
			fallback: "bob",
			expected: RepoRef{FullName: "org/group/repo", Owner: "org", Name: "group/repo"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRepoRef(tc.input, tc.fallback))
		})
	}
}

func TestBranchSet(t *testing.T) {
	var s BranchSet
	assert.False(t, s.Contains("main"))
	assert.Empty(t, s.Names())

	s.Add("feature/b")
	s.Add("feature/a")
	s.Add("feature/b")

	assert.True(t, s.Contains("feature/a"))
	assert.False(t, s.Contains("main"))
	assert.Equal(t, []string{"feature/a", "feature/b"}, s.Names())
}

func TestCommitRecordDay(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*3600)
	record := CommitRecord{Timestamp: time.Date(2024, time.January, 1, 0, 30, 0, 0, shanghai)}

	// The day is taken in the timestamp's own zone, not UTC.
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), record.Day())
}

func TestContributorBreakdown(t *testing.T) {
	cs := &ContributorStats{}
	b := cs.Breakdown("alice/widgets")
	b.Commits++
	b.Added += 10

	again := cs.Breakdown("alice/widgets")
	assert.Equal(t, 1, again.Commits)
	assert.Equal(t, 10, again.Added)
	assert.Len(t, cs.Repos, 1)
}
