package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
	"github.com/m-mizutani/vimpub/pkg/usecase"
)

const autoloadContent = "\" vim: set ft=vim :\n" +
	"let g:xolox#easytags#version = '1.3.0'\n"

type testEnv struct {
	git      *mockGit
	listing  *mockListing
	creds    *mockCreds
	gate     *mockGate
	opener   *mockOpener
	hooks    *mockHook
	registry *model.Registry
	uc       *usecase.Release
}

func newTestEnv(t *testing.T, zipFile string) *testEnv {
	t.Helper()

	plugin := &model.Plugin{
		Name:           "xolox/vim-easytags",
		Directory:      t.TempDir(),
		ScriptID:       3114,
		AutoloadScript: "autoload/xolox/easytags.vim",
		ZipFile:        zipFile,
		HelpFile:       "easytags.txt",
	}
	registry := model.NewRegistry(map[string]*model.Plugin{plugin.Name: plugin})

	env := &testEnv{
		git: &mockGit{
			remoteURL: "git@github.com:xolox/vim-easytags.git",
			files: map[string]string{
				plugin.AutoloadScript: autoloadContent,
			},
			commits: []model.Commit{
				{Hash: "c333333", Subject: "Fix tag highlighting:"},
				{Hash: "b222222", Subject: "Make the cache directory configurable"},
				{Hash: "a111111", Subject: "Refactor version handling"},
			},
		},
		listing: &mockListing{
			versions: []model.Version{{1, 0}, {1, 2, 0}},
		},
		creds:  &mockCreds{creds: model.Credentials{Login: "xolox", Password: "hunter2"}},
		gate:   &mockGate{echo: true},
		opener: &mockOpener{},
		hooks:  &mockHook{installed: map[string]string{}},
	}
	env.registry = registry

	resolver := usecase.NewResolver(env.git, env.listing)
	changelog := usecase.NewChangelogGenerator(env.git)
	publisher := usecase.NewPublisher(env.git, env.listing, env.creds, env.opener, env.hooks, "www.vim.org")
	env.uc = usecase.NewRelease(registry, env.git, resolver, changelog, env.gate, publisher)
	return env
}

func TestPublishRelease_HappyPath(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-happy.zip")
	env.hooks.installed[usecase.PostReleaseHookName] = "/usr/local/bin/vimpub-post-release"

	report, err := env.uc.PublishRelease(ctx, false)
	gt.NoError(t, err)

	gt.Value(t, report.Outcome).Equal(model.OutcomePublished)
	gt.Value(t, report.PreviousVersion.String()).Equal("1.2.0")
	gt.Value(t, report.CandidateVersion.String()).Equal("1.3.0")

	// push happened exactly once, branch then tags
	gt.Number(t, len(env.git.pushBranchCalls)).Equal(1)
	gt.Value(t, env.git.pushBranchCalls[0]).Equal("origin/master")
	gt.Number(t, env.git.pushTagsCalls).Equal(1)

	// upload carried the approved changelog with three oldest-first entries
	gt.Number(t, len(env.listing.uploads)).Equal(1)
	up := env.listing.uploads[0]
	gt.Value(t, up.Version.String()).Equal("1.3.0")
	gt.Number(t, up.ScriptID).Equal(3114)
	gt.String(t, up.Changelog).Contains("Refactor version handling")
	gt.String(t, up.Changelog).Contains("https://github.com/xolox/vim-easytags/commit/a111111")
	gt.Number(t, strings.Index(up.Changelog, "a111111")).Less(strings.Index(up.Changelog, "b222222"))
	gt.Number(t, strings.Index(up.Changelog, "b222222")).Less(strings.Index(up.Changelog, "c333333"))

	// the archive existed during upload and was removed afterwards
	gt.True(t, env.listing.archiveSeenOnWire)
	_, statErr := os.Stat(filepath.Join(os.TempDir(), "vimpub-test-happy.zip"))
	gt.True(t, os.IsNotExist(statErr))

	// notification and post-release hook both ran
	gt.Number(t, len(env.opener.urls)).Equal(1)
	gt.String(t, env.opener.urls[0]).Contains("script_id=3114")
	gt.Number(t, len(env.hooks.runCalls)).Equal(1)
}

func TestPublishRelease_UpToDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-uptodate.zip")
	env.listing.versions = []model.Version{{1, 2, 0}, {1, 3, 0}}

	report, err := env.uc.PublishRelease(ctx, false)
	gt.NoError(t, err)
	gt.Value(t, report.Outcome).Equal(model.OutcomeUpToDate)

	// zero mutating calls of any kind
	gt.Number(t, len(env.git.pushBranchCalls)).Equal(0)
	gt.Number(t, env.git.pushTagsCalls).Equal(0)
	gt.Number(t, len(env.git.archiveCalls)).Equal(0)
	gt.Number(t, len(env.listing.uploads)).Equal(0)
	gt.Number(t, len(env.gate.drafts)).Equal(0)
}

func TestPublishRelease_DryRun(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-dryrun.zip")

	report, err := env.uc.PublishRelease(ctx, true)
	gt.NoError(t, err)
	gt.Value(t, report.Outcome).Equal(model.OutcomeDryRun)

	// never pushes or uploads, but the changelog is still generated
	gt.Number(t, len(env.git.pushBranchCalls)).Equal(0)
	gt.Number(t, env.git.pushTagsCalls).Equal(0)
	gt.Number(t, len(env.git.archiveCalls)).Equal(0)
	gt.Number(t, len(env.listing.uploads)).Equal(0)
	gt.Number(t, len(env.gate.drafts)).Equal(1)
	gt.String(t, report.ChangelogText).Contains("Make the cache directory configurable")
}

func TestPublishRelease_Canceled(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-canceled.zip")
	env.gate.echo = false
	env.gate.result = "  \n\t"

	report, err := env.uc.PublishRelease(ctx, false)
	gt.NoError(t, err)
	gt.Value(t, report.Outcome).Equal(model.OutcomeCanceled)

	// the push already happened, but nothing was built or uploaded
	gt.Number(t, len(env.git.pushBranchCalls)).Equal(1)
	gt.Number(t, len(env.git.archiveCalls)).Equal(0)
	gt.Number(t, len(env.listing.uploads)).Equal(0)
}

func TestPublishRelease_NothingToRelease(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-empty.zip")
	env.git.commits = nil

	report, err := env.uc.PublishRelease(ctx, false)
	gt.NoError(t, err)
	gt.Value(t, report.Outcome).Equal(model.OutcomeNothingToRelease)

	// no approval session and no upload for an empty range
	gt.Number(t, len(env.gate.drafts)).Equal(0)
	gt.Number(t, len(env.listing.uploads)).Equal(0)
}

func TestPublishRelease_UnknownRepository(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-unknown.zip")
	env.git.remoteURL = "git@github.com:somebody/else.git"

	_, err := env.uc.PublishRelease(ctx, false)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrPluginNotRegistered))
}

func TestPublishRelease_UploadFailureCleansArchive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-uploadfail.zip")
	env.listing.uploadErr = errors.New("upload rejected")

	_, err := env.uc.PublishRelease(ctx, false)
	gt.Error(t, err)

	// the archive is removed even though the upload failed
	_, statErr := os.Stat(filepath.Join(os.TempDir(), "vimpub-test-uploadfail.zip"))
	gt.True(t, os.IsNotExist(statErr))

	// failure happened after the push, which is not rolled back
	gt.Number(t, len(env.git.pushBranchCalls)).Equal(1)
	gt.Number(t, len(env.opener.urls)).Equal(0)
}

func TestPublishRelease_HTTPSRemoteURL(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "vimpub-test-https.zip")
	env.git.remoteURL = "https://github.com/xolox/vim-easytags.git"

	report, err := env.uc.PublishRelease(ctx, true)
	gt.NoError(t, err)
	gt.Value(t, report.Plugin).Equal("xolox/vim-easytags")
}
