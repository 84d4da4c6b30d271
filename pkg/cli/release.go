package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/vimpub/pkg/cli/config"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/infra/browser"
	"github.com/m-mizutani/vimpub/pkg/infra/editor"
	"github.com/m-mizutani/vimpub/pkg/infra/git"
	"github.com/m-mizutani/vimpub/pkg/infra/hook"
	"github.com/m-mizutani/vimpub/pkg/infra/netrc"
	"github.com/m-mizutani/vimpub/pkg/infra/vimonline"
	"github.com/m-mizutani/vimpub/pkg/usecase"
)

func cmdRelease() *cli.Command {
	var (
		registryCfg config.Registry
		onlineCfg   config.VimOnline
		dryRun      bool
	)

	flags := append(registryCfg.Flags(), onlineCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "dry-run",
		Aliases:     []string{"n"},
		Usage:       "Do not push or upload anything",
		Destination: &dryRun,
		Sources:     cli.EnvVars("VIMPUB_DRY_RUN"),
	})

	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   "Publish the current plug-in to GitHub and Vim Online",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			if dryRun {
				logger.Info("Enabling dry run")
			}

			registry, err := registryCfg.Load()
			if err != nil {
				return err
			}

			uc, err := newReleaseUseCase(registry, &onlineCfg)
			if err != nil {
				return err
			}

			report, err := uc.PublishRelease(ctx, dryRun)
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}
}

// newReleaseUseCase wires the infra clients into the orchestrator. The
// git client is bound to the current working directory, which is how
// the current plug-in is identified.
func newReleaseUseCase(registry *model.Registry, onlineCfg *config.VimOnline) (interfaces.ReleaseUseCase, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve working directory")
	}
	gitClient := git.New(wd)

	listing, err := vimonline.New(vimonline.WithBaseURL(onlineCfg.BaseURL))
	if err != nil {
		return nil, err
	}

	netrcPath, err := onlineCfg.ResolveNetrcPath()
	if err != nil {
		return nil, err
	}

	resolver := usecase.NewResolver(gitClient, listing)
	changelog := usecase.NewChangelogGenerator(gitClient)
	publisher := usecase.NewPublisher(
		gitClient,
		listing,
		netrc.New(netrcPath),
		browser.New(),
		hook.New(),
		listing.Host(),
	)
	gate := editor.New(onlineCfg.Editor)

	return usecase.NewRelease(registry, gitClient, resolver, changelog, gate, publisher), nil
}

func printReport(report *model.ReleaseReport) {
	switch report.Outcome {
	case model.OutcomePublished:
		color.Green("Published %s %s", report.Plugin, report.CandidateVersion.String())
	case model.OutcomeDryRun:
		color.Yellow("Dry run: would publish %s %s -> %s",
			report.Plugin,
			report.PreviousVersion.String(),
			report.CandidateVersion.String(),
		)
		color.Cyan("%s", report.ChangelogText)
	case model.OutcomeCanceled:
		color.Yellow("Release of %s canceled", report.Plugin)
	case model.OutcomeUpToDate, model.OutcomeNothingToRelease:
		color.Green("%s is up to date", report.Plugin)
	}
}
