package git

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DateRelative selects humanized dates in FormatDate.
const DateRelative = "relative"

// Commit is one entry of the history list.
type Commit struct {
	ID          string
	ShortID     string
	Author      string
	AuthorEmail string
	When        time.Time
	Summary     string
	Message     string
	Refs        []string
}

func newCommit(c *object.Commit, labels map[string][]string) Commit {
	message := strings.ToValidUTF8(c.Message, "�")
	id := c.Hash.String()
	return Commit{
		ID:          id,
		ShortID:     shortHash(c.Hash),
		Author:      strings.ToValidUTF8(c.Author.Name, "�"),
		AuthorEmail: c.Author.Email,
		When:        c.Author.When,
		Summary:     summaryLine(message),
		Message:     message,
		Refs:        labels[id],
	}
}

func summaryLine(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(line)
}

// Matches reports whether the lower-cased query appears in the summary,
// author or short id, ignoring case.
func (c Commit) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Summary), query) ||
		strings.Contains(strings.ToLower(c.Author), query) ||
		strings.Contains(strings.ToLower(c.ShortID), query)
}

// RelativeDate renders the author date relative to now, e.g. "2 hours ago".
func (c Commit) RelativeDate(now time.Time) string {
	return humanize.RelTime(c.When, now, "ago", "from now")
}

// FormatDate renders the author date with a Go time layout, or relative to
// now when layout is empty or DateRelative.
func (c Commit) FormatDate(layout string, now time.Time) string {
	if layout == "" || layout == DateRelative {
		return c.RelativeDate(now)
	}
	return c.When.Local().Format(layout)
}
