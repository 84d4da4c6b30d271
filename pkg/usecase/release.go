package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
)

// Release orchestrates one publication run: resolve the published and
// committed versions, push to the source-control remote, draft and
// approve a changelog, then build and upload the release archive.
type Release struct {
	registry  *model.Registry
	git       interfaces.GitClient
	resolver  *Resolver
	changelog *ChangelogGenerator
	gate      interfaces.ApprovalGate
	publisher *Publisher
}

var _ interfaces.ReleaseUseCase = (*Release)(nil)

// NewRelease creates the release orchestrator
func NewRelease(
	registry *model.Registry,
	git interfaces.GitClient,
	resolver *Resolver,
	changelog *ChangelogGenerator,
	gate interfaces.ApprovalGate,
	publisher *Publisher,
) *Release {
	return &Release{
		registry:  registry,
		git:       git,
		resolver:  resolver,
		changelog: changelog,
		gate:      gate,
		publisher: publisher,
	}
}

// PublishRelease runs the pipeline for the plug-in in the current
// working directory. The run is strictly sequential; completed steps
// are not rolled back on a later failure, a re-run converges through
// the version equality check. Callers must not start concurrent runs
// for the same plug-in.
func (uc *Release) PublishRelease(ctx context.Context, dryRun bool) (*model.ReleaseReport, error) {
	logger := ctxlog.From(ctx)

	plugin, err := currentPlugin(ctx, uc.git, uc.registry)
	if err != nil {
		return nil, err
	}

	previous, err := uc.resolver.ResolvePublishedVersion(ctx, plugin)
	if err != nil {
		return nil, err
	}
	candidate, err := uc.resolver.ResolveCommittedVersion(ctx, plugin)
	if err != nil {
		return nil, err
	}

	run := &model.ReleaseContext{
		Plugin:           plugin,
		PreviousVersion:  previous,
		CandidateVersion: candidate,
		DryRun:           dryRun,
	}
	report := &model.ReleaseReport{
		Plugin:           plugin.Name,
		PreviousVersion:  previous,
		CandidateVersion: candidate,
	}

	if candidate.Equal(previous) {
		logger.Info("Everything up to date", "version", candidate.String())
		report.Outcome = model.OutcomeUpToDate
		return report, nil
	}

	if run.DryRun {
		logger.Info("Skipping push to source-control remote (dry run)")
	} else if err := uc.publisher.PushToRemote(ctx); err != nil {
		return nil, err
	}

	draft, err := uc.changelog.Generate(ctx, plugin, previous, candidate)
	if err != nil {
		return nil, err
	}
	run.Changelog = draft

	if len(draft) == 0 {
		logger.Info("No commits between versions, nothing to release",
			"range", previous.String()+".."+candidate.String(),
		)
		report.Outcome = model.OutcomeNothingToRelease
		return report, nil
	}

	approved, err := uc.gate.Approve(ctx, draft.Render())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(approved) == "" {
		logger.Warn("Empty change log, canceling release")
		report.Outcome = model.OutcomeCanceled
		return report, nil
	}
	report.ChangelogText = approved

	if run.DryRun {
		logger.Info("Skipping listing service upload (dry run)")
		report.Outcome = model.OutcomeDryRun
		return report, nil
	}

	archivePath, err := uc.publisher.BuildArchive(ctx, plugin)
	if err != nil {
		return nil, err
	}
	if err := uc.publisher.UploadArchive(ctx, plugin, candidate, approved, archivePath); err != nil {
		return nil, err
	}
	uc.publisher.NotifyRelease(ctx, plugin)
	if err := uc.publisher.RunPostReleaseHook(ctx, plugin); err != nil {
		return nil, err
	}

	logger.Info("Release published",
		"plugin", plugin.Name,
		"version", candidate.String(),
	)
	report.Outcome = model.OutcomePublished
	return report, nil
}

var remoteURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:(.+?)(?:\.git)?$`),
	regexp.MustCompile(`^https://github\.com/(.+?)(?:\.git)?/?$`),
}

// currentPlugin identifies the plug-in of the working directory from
// the repository's remote origin URL
func currentPlugin(ctx context.Context, git interfaces.GitClient, registry *model.Registry) (*model.Plugin, error) {
	raw, err := git.RemoteOriginURL(ctx)
	if err != nil {
		return nil, err
	}

	var name string
	for _, pattern := range remoteURLPatterns {
		if m := pattern.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			name = m[1]
			break
		}
	}
	if name == "" {
		return nil, goerr.New("failed to parse remote origin URL", goerr.V("url", raw))
	}

	plugin, ok := registry.Get(name)
	if !ok {
		return nil, goerr.Wrap(types.ErrPluginNotRegistered, "unknown plug-in repository", goerr.V("name", name))
	}

	ctxlog.From(ctx).Info("Found current plug-in", "name", name)
	return plugin, nil
}
