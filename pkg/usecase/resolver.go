package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
)

// Resolver determines the two comparison points of a release: the
// highest version already published on the listing service and the
// version committed at HEAD. Both operations are read-only and safe to
// repeat.
type Resolver struct {
	git     interfaces.GitClient
	listing interfaces.ListingClient
}

// NewResolver creates a version resolver
func NewResolver(git interfaces.GitClient, listing interfaces.ListingClient) *Resolver {
	return &Resolver{
		git:     git,
		listing: listing,
	}
}

// ResolvePublishedVersion returns the newest version released on the
// plug-in's listing page
func (r *Resolver) ResolvePublishedVersion(ctx context.Context, plugin *model.Plugin) (model.Version, error) {
	logger := ctxlog.From(ctx)

	versions, err := r.listing.FetchReleasedVersions(ctx, plugin.ScriptID)
	if err != nil {
		return nil, err
	}

	newest := model.MaxVersion(versions)
	logger.Info("Found last published version",
		"plugin", plugin.Name,
		"version", newest.String(),
		"releases", len(versions),
	)
	return newest, nil
}

// ResolveCommittedVersion scans the committed autoload script for the
// version marker assignment. Uncommitted working-tree changes are
// ignored.
func (r *Resolver) ResolveCommittedVersion(ctx context.Context, plugin *model.Plugin) (model.Version, error) {
	logger := ctxlog.From(ctx)

	marker := "let " + plugin.VersionVariable()
	contents, err := r.git.ShowFile(ctx, plugin.AutoloadScript)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(contents, "\n") {
		if !strings.HasPrefix(line, marker) {
			continue
		}
		_, rhs, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(rhs), `'"`)
		v, err := model.ParseVersion(raw)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed version marker",
				goerr.V("script", plugin.AutoloadScript),
				goerr.V("line", line),
			)
		}
		logger.Info("Found last committed version",
			"plugin", plugin.Name,
			"version", v.String(),
		)
		return v, nil
	}

	return nil, goerr.Wrap(types.ErrVersionMarkerNotFound, "no version assignment in autoload script",
		goerr.V("script", plugin.AutoloadScript),
		goerr.V("marker", marker),
	)
}
