package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "Fix bug", summaryLine("Fix bug\n\nLonger body\n"))
	assert.Equal(t, "Trim me", summaryLine("\n  Trim me  \nbody"))
	assert.Equal(t, "", summaryLine(""))
}

func TestCommitMatches(t *testing.T) {
	c := Commit{ShortID: "abc1234", Author: "Jane Doe", Summary: "Fix Typo in README"}

	assert.True(t, c.Matches("typo"))
	assert.True(t, c.Matches("jane"))
	assert.True(t, c.Matches("abc1"))
	assert.True(t, c.Matches(""))
	assert.False(t, c.Matches("feature"))
}

func TestCommitDates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := Commit{When: now.Add(-2 * time.Hour)}

	assert.Equal(t, "2 hours ago", c.RelativeDate(now))
	assert.Equal(t, "2 hours ago", c.FormatDate(DateRelative, now))
	assert.Equal(t, "2 hours ago", c.FormatDate("", now))

	c.When = time.Date(2023, 3, 4, 5, 6, 0, 0, time.Local)
	assert.Equal(t, "2023-03-04 05:06", c.FormatDate("2006-01-02 15:04", now))
}
