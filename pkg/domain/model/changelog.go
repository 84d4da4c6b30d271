package model

import "strings"

// Commit is one line of abbreviated git history
type Commit struct {
	Hash    string // Abbreviated commit hash
	Subject string // Commit subject line
}

// ChangelogEntry describes a single commit in a release range
type ChangelogEntry struct {
	Summary   string // Subject line with any trailing colon stripped
	CommitURL string // Public URL of the commit
}

// Changelog is an ordered oldest-to-newest list of release entries
type Changelog []ChangelogEntry

// Render produces the bullet list text expected by the listing service
func (c Changelog) Render() string {
	var b strings.Builder
	for _, entry := range c {
		b.WriteString(" • ")
		b.WriteString(entry.Summary)
		b.WriteString(":\n   ")
		b.WriteString(entry.CommitURL)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
