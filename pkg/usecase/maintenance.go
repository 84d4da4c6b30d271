package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// HelpdocConverterName is the optional executable that converts
// README.md into a Vim help file
const HelpdocConverterName = "vimpub-helpdoc"

// Maintenance implements the shared pre/post-commit hook actions and
// the wrapper script installation
type Maintenance struct {
	registry *model.Registry
	git      interfaces.GitClient
	resolver *Resolver
	hooks    interfaces.CommandHook
}

var _ interfaces.MaintenanceUseCase = (*Maintenance)(nil)

// NewMaintenance creates the maintenance use case
func NewMaintenance(
	registry *model.Registry,
	git interfaces.GitClient,
	resolver *Resolver,
	hooks interfaces.CommandHook,
) *Maintenance {
	return &Maintenance{
		registry: registry,
		git:      git,
		resolver: resolver,
		hooks:    hooks,
	}
}

// InstallHooks writes pre/post-commit wrapper scripts into every
// registered plug-in repository. Wrapper scripts are used instead of
// symlinks so the hooks survive file synchronization tools.
func (uc *Maintenance) InstallHooks(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	self, err := os.Executable()
	if err != nil {
		return goerr.Wrap(err, "failed to locate the vimpub executable")
	}

	for _, plugin := range uc.registry.Sorted() {
		hooksDir := filepath.Join(plugin.Directory, ".git", "hooks")
		if err := os.MkdirAll(hooksDir, 0755); err != nil {
			return goerr.Wrap(err, "failed to create hooks directory", goerr.V("dir", hooksDir))
		}

		for _, name := range []string{"pre-commit", "post-commit"} {
			path := filepath.Join(hooksDir, name)
			script := fmt.Sprintf("#!/bin/sh\n\nexec %q %s\n", self, name)
			if err := os.WriteFile(path, []byte(script), 0755); err != nil {
				return goerr.Wrap(err, "failed to write hook script", goerr.V("path", path))
			}
			logger.Debug("Created hook script", "path", path)
		}
	}

	logger.Info("Installed git hooks", "plugins", uc.registry.Len())
	return nil
}

// PreCommit runs repository checks just before a commit is made
func (uc *Maintenance) PreCommit(ctx context.Context) error {
	logger := ctxlog.From(ctx)
	logger.Info("Running pre-commit checks")

	plugin, err := currentPlugin(ctx, uc.git, uc.registry)
	if err != nil {
		return err
	}
	if err := uc.checkIgnoreFile(ctx); err != nil {
		return err
	}
	if err := uc.updateCopyright(ctx); err != nil {
		return err
	}
	return uc.updateHelpFile(ctx, plugin)
}

// PostCommit creates a tag for the committed version after a commit on
// the release branch
func (uc *Maintenance) PostCommit(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	branch, err := uc.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if branch != "master" && branch != "main" {
		logger.Debug("Not on a release branch, skipping tag check", "branch", branch)
		return nil
	}

	plugin, err := currentPlugin(ctx, uc.git, uc.registry)
	if err != nil {
		return err
	}
	version, err := uc.resolver.ResolveCommittedVersion(ctx, plugin)
	if err != nil {
		return err
	}

	tags, err := uc.git.Tags(ctx)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		if tag == version.String() {
			logger.Debug("Tag already exists", "tag", tag)
			return nil
		}
	}

	logger.Info("Creating tag", "tag", version.String())
	return uc.git.CreateTag(ctx, version.String())
}

// checkIgnoreFile verifies that generated help tags stay out of version
// control, either in the committed .gitignore or in the staged diff
func (uc *Maintenance) checkIgnoreFile(ctx context.Context) error {
	if committed, err := uc.git.ShowFile(ctx, ".gitignore"); err == nil {
		for _, line := range strings.Split(committed, "\n") {
			if strings.TrimSpace(line) == "doc/tags" {
				return nil
			}
		}
	}
	if staged, err := uc.git.CachedDiff(ctx, ".gitignore"); err == nil {
		for _, line := range strings.Split(staged, "\n") {
			if strings.TrimSpace(line) == "+doc/tags" {
				return nil
			}
		}
	}
	return goerr.New(".gitignore does not exclude doc/tags")
}

var copyrightPattern = regexp.MustCompile(`© \d{4}`)

// updateCopyright rewrites the copyright year in README.md when stale
// and stages the change
func (uc *Maintenance) updateCopyright(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	data, err := os.ReadFile("README.md")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to read README.md")
	}

	year := time.Now().Format("2006")
	updated := copyrightPattern.ReplaceAllString(string(data), "© "+year)
	if updated == string(data) {
		return nil
	}

	logger.Info("Updating copyright year in README.md", "year", year)
	if err := os.WriteFile("README.md", []byte(updated), 0644); err != nil {
		return goerr.Wrap(err, "failed to write README.md")
	}
	return uc.git.StageFile(ctx, "README.md")
}

// updateHelpFile regenerates the Vim help file from README.md when the
// optional converter is installed
func (uc *Maintenance) updateHelpFile(ctx context.Context, plugin *model.Plugin) error {
	logger := ctxlog.From(ctx)

	if plugin.HelpFile == "" {
		return nil
	}
	converter, ok := uc.hooks.Find(HelpdocConverterName)
	if !ok {
		logger.Debug("No helpdoc converter installed", "converter", HelpdocConverterName)
		return nil
	}

	out, err := uc.hooks.Output(ctx, converter, "README.md", plugin.HelpFile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll("doc", 0755); err != nil {
		return goerr.Wrap(err, "failed to create doc directory")
	}
	helpPath := filepath.Join("doc", plugin.HelpFile)
	if err := os.WriteFile(helpPath, []byte(out), 0644); err != nil {
		return goerr.Wrap(err, "failed to write help file", goerr.V("path", helpPath))
	}

	logger.Info("Regenerated help file", "path", helpPath)
	return uc.git.StageFile(ctx, helpPath)
}
