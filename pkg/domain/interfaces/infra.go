package interfaces

import (
	"context"

	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// GitClient wraps the external git command for one repository. Every
// operation surfaces a nonzero exit uniformly as an external command
// failure carrying the argv.
type GitClient interface {
	// RemoteOriginURL returns the configured remote.origin.url
	RemoteOriginURL(ctx context.Context) (string, error)

	// CurrentBranch returns the branch name of the symbolic HEAD ref
	CurrentBranch(ctx context.Context) (string, error)

	// PushBranch pushes a branch to the given remote
	PushBranch(ctx context.Context, remote, branch string) error

	// PushTags pushes all local tags
	PushTags(ctx context.Context) error

	// ShowFile returns the committed content of a file at HEAD,
	// ignoring working-tree changes
	ShowFile(ctx context.Context, path string) (string, error)

	// LogRange lists commits in (since, until], newest first, with
	// abbreviated hash and subject line
	LogRange(ctx context.Context, since, until string) ([]model.Commit, error)

	// Tags lists existing tag names
	Tags(ctx context.Context) ([]string, error)

	// CreateTag creates a lightweight tag at HEAD
	CreateTag(ctx context.Context, name string) error

	// Archive writes a clean archive of HEAD to dest
	Archive(ctx context.Context, dest string) error

	// StageFile adds a file to the index
	StageFile(ctx context.Context, path string) error

	// CachedDiff returns the staged diff of a file
	CachedDiff(ctx context.Context, path string) (string, error)
}

// ListingClient talks to the plug-in listing service. The fetch side is
// the version lookup capability; its page-parsing strategy is an
// implementation detail that can be swapped without touching callers.
type ListingClient interface {
	// FetchReleasedVersions returns every version published on the
	// plug-in's script page
	FetchReleasedVersions(ctx context.Context, scriptID int) ([]model.Version, error)

	// UploadRelease logs in and submits a new release
	UploadRelease(ctx context.Context, creds model.Credentials, up *model.Upload) error

	// ScriptPageURL returns the public page URL of a script
	ScriptPageURL(scriptID int) string
}

// CredentialStore resolves login credentials by host name
type CredentialStore interface {
	Lookup(host string) (model.Credentials, error)
}

// ApprovalGate presents a changelog draft for human review. It blocks
// until the human is done; an empty result after trimming means the
// release was canceled, not that something failed.
type ApprovalGate interface {
	Approve(ctx context.Context, draft string) (string, error)
}

// PageOpener shows a URL to the human, best effort
type PageOpener interface {
	Open(url string) error
}

// CommandHook locates and runs optional external helper executables
type CommandHook interface {
	// Find resolves an executable name on the search path
	Find(name string) (string, bool)

	// Run executes the command, inheriting stdout/stderr
	Run(ctx context.Context, path string, args ...string) error

	// Output executes the command and captures its stdout
	Output(ctx context.Context, path string, args ...string) (string, error)
}
