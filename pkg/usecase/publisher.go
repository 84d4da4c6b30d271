package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// PostReleaseHookName is the optional executable run after a successful
// release
const PostReleaseHookName = "vimpub-post-release"

// Publisher performs the irreversible publish steps: pushing to the
// source-control remote, building the release archive and uploading it
// to the listing service. None of these can be rolled back once started.
type Publisher struct {
	git     interfaces.GitClient
	listing interfaces.ListingClient
	creds   interfaces.CredentialStore
	opener  interfaces.PageOpener
	hooks   interfaces.CommandHook
	host    string
	remote  string
}

// NewPublisher creates a release publisher. The host selects the
// credential entry used for the listing service login.
func NewPublisher(
	git interfaces.GitClient,
	listing interfaces.ListingClient,
	creds interfaces.CredentialStore,
	opener interfaces.PageOpener,
	hooks interfaces.CommandHook,
	host string,
) *Publisher {
	return &Publisher{
		git:     git,
		listing: listing,
		creds:   creds,
		opener:  opener,
		hooks:   hooks,
		host:    host,
		remote:  "origin",
	}
}

// PushToRemote publishes the current branch and all tags
func (p *Publisher) PushToRemote(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	branch, err := p.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	logger.Info("Pushing change sets and tags",
		"remote", p.remote,
		"branch", branch,
	)
	if err := p.git.PushBranch(ctx, p.remote, branch); err != nil {
		return err
	}
	return p.git.PushTags(ctx)
}

// BuildArchive writes a clean archive of HEAD, free of any uncommitted
// changes, to a deterministic temporary path
func (p *Publisher) BuildArchive(ctx context.Context, plugin *model.Plugin) (string, error) {
	dest := filepath.Join(os.TempDir(), plugin.ZipFile)
	ctxlog.From(ctx).Info("Building release archive", "path", dest)
	if err := p.git.Archive(ctx, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// UploadArchive submits the release to the listing service. The archive
// file is removed on every exit path, success or failure.
func (p *Publisher) UploadArchive(ctx context.Context, plugin *model.Plugin, version model.Version, changelog, archivePath string) error {
	logger := ctxlog.From(ctx)
	defer func() {
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove release archive", "path", archivePath, "error", err)
		}
	}()

	creds, err := p.creds.Lookup(p.host)
	if err != nil {
		return err
	}

	logger.Info("Uploading release to listing service",
		"plugin", plugin.Name,
		"version", version.String(),
		"credentials", creds,
	)
	return p.listing.UploadRelease(ctx, creds, &model.Upload{
		ScriptID:    plugin.ScriptID,
		Version:     version,
		Changelog:   changelog,
		ArchivePath: archivePath,
	})
}

// NotifyRelease opens the plug-in's public listing page so the human
// can confirm the upload. Best effort, never fatal.
func (p *Publisher) NotifyRelease(ctx context.Context, plugin *model.Plugin) {
	logger := ctxlog.From(ctx)
	url := p.listing.ScriptPageURL(plugin.ScriptID)
	if err := p.opener.Open(url); err != nil {
		logger.Warn("Failed to open listing page", "url", url, "error", err)
	}
}

// RunPostReleaseHook runs the optional post-release executable. A
// missing hook is only a debug-level note; a failing hook surfaces like
// any other external command failure.
func (p *Publisher) RunPostReleaseHook(ctx context.Context, plugin *model.Plugin) error {
	logger := ctxlog.From(ctx)

	path, ok := p.hooks.Find(PostReleaseHookName)
	if !ok {
		logger.Debug("No post-release hook installed", "hook", PostReleaseHookName)
		return nil
	}

	logger.Info("Running post-release hook", "path", path, "plugin", plugin.Name)
	return p.hooks.Run(ctx, path)
}
