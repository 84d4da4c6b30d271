package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/vimpub/pkg/cli/config"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/infra/git"
	"github.com/m-mizutani/vimpub/pkg/infra/hook"
	"github.com/m-mizutani/vimpub/pkg/infra/vimonline"
	"github.com/m-mizutani/vimpub/pkg/usecase"
)

func cmdInstallHooks() *cli.Command {
	var registryCfg config.Registry

	return &cli.Command{
		Name:    "install-hooks",
		Aliases: []string{"i"},
		Usage:   "Install shared pre/post-commit hook scripts for all plug-ins",
		Flags:   registryCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := newMaintenanceUseCase(&registryCfg)
			if err != nil {
				return err
			}
			return uc.InstallHooks(ctx)
		},
	}
}

func cmdPreCommit() *cli.Command {
	var registryCfg config.Registry

	return &cli.Command{
		Name:  "pre-commit",
		Usage: "Run shared repository checks before a commit",
		Flags: registryCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := newMaintenanceUseCase(&registryCfg)
			if err != nil {
				return err
			}
			return uc.PreCommit(ctx)
		},
	}
}

func cmdPostCommit() *cli.Command {
	var registryCfg config.Registry

	return &cli.Command{
		Name:  "post-commit",
		Usage: "Tag the committed version after a commit",
		Flags: registryCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := newMaintenanceUseCase(&registryCfg)
			if err != nil {
				return err
			}
			return uc.PostCommit(ctx)
		},
	}
}

func newMaintenanceUseCase(registryCfg *config.Registry) (interfaces.MaintenanceUseCase, error) {
	registry, err := registryCfg.Load()
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve working directory")
	}
	gitClient := git.New(wd)

	listing, err := vimonline.New()
	if err != nil {
		return nil, err
	}

	resolver := usecase.NewResolver(gitClient, listing)
	return usecase.NewMaintenance(registry, gitClient, resolver, hook.New()), nil
}
