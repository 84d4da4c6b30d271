package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// ChangelogGenerator derives a reviewable changelog from the commit
// history between two release versions
type ChangelogGenerator struct {
	git interfaces.GitClient
}

// NewChangelogGenerator creates a changelog generator
func NewChangelogGenerator(git interfaces.GitClient) *ChangelogGenerator {
	return &ChangelogGenerator{git: git}
}

// Generate lists the commits in (previous, candidate] and turns them
// into entries ordered oldest first, each carrying a normalized summary
// and a link to the commit. An empty range yields an empty changelog,
// not an error.
func (g *ChangelogGenerator) Generate(ctx context.Context, plugin *model.Plugin, previous, candidate model.Version) (model.Changelog, error) {
	logger := ctxlog.From(ctx)

	commits, err := g.git.LogRange(ctx, previous.String(), candidate.String())
	if err != nil {
		return nil, err
	}

	// git log is newest first, the changelog reads oldest first
	changelog := make(model.Changelog, 0, len(commits))
	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		changelog = append(changelog, model.ChangelogEntry{
			Summary:   strings.TrimSuffix(strings.TrimSpace(commit.Subject), ":"),
			CommitURL: plugin.CommitURL(commit.Hash),
		})
	}

	logger.Debug("Generated changelog",
		"plugin", plugin.Name,
		"entries", len(changelog),
		"range", previous.String()+".."+candidate.String(),
	)
	return changelog, nil
}
