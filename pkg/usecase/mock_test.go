package usecase_test

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// mockGit is a recording in-memory GitClient
type mockGit struct {
	remoteURL  string
	branch     string
	files      map[string]string
	commits    []model.Commit
	tags       []string
	cachedDiff map[string]string

	pushErr    error
	archiveErr error

	pushBranchCalls []string
	pushTagsCalls   int
	archiveCalls    []string
	createdTags     []string
	stagedFiles     []string
}

func (m *mockGit) RemoteOriginURL(ctx context.Context) (string, error) {
	return m.remoteURL, nil
}

func (m *mockGit) CurrentBranch(ctx context.Context) (string, error) {
	if m.branch == "" {
		return "master", nil
	}
	return m.branch, nil
}

func (m *mockGit) PushBranch(ctx context.Context, remote, branch string) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushBranchCalls = append(m.pushBranchCalls, remote+"/"+branch)
	return nil
}

func (m *mockGit) PushTags(ctx context.Context) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushTagsCalls++
	return nil
}

func (m *mockGit) ShowFile(ctx context.Context, path string) (string, error) {
	content, ok := m.files[path]
	if !ok {
		return "", goerr.New("no such committed file", goerr.V("path", path))
	}
	return content, nil
}

func (m *mockGit) LogRange(ctx context.Context, since, until string) ([]model.Commit, error) {
	return m.commits, nil
}

func (m *mockGit) Tags(ctx context.Context) ([]string, error) {
	return m.tags, nil
}

func (m *mockGit) CreateTag(ctx context.Context, name string) error {
	m.createdTags = append(m.createdTags, name)
	return nil
}

func (m *mockGit) Archive(ctx context.Context, dest string) error {
	if m.archiveErr != nil {
		return m.archiveErr
	}
	m.archiveCalls = append(m.archiveCalls, dest)
	return os.WriteFile(dest, []byte("zip content"), 0600)
}

func (m *mockGit) StageFile(ctx context.Context, path string) error {
	m.stagedFiles = append(m.stagedFiles, path)
	return nil
}

func (m *mockGit) CachedDiff(ctx context.Context, path string) (string, error) {
	return m.cachedDiff[path], nil
}

// mockListing is a recording in-memory ListingClient
type mockListing struct {
	versions []model.Version
	fetchErr error

	uploadErr          error
	uploads            []*model.Upload
	archiveSeenOnWire  bool
	archiveGoneAtStart bool
}

func (m *mockListing) FetchReleasedVersions(ctx context.Context, scriptID int) ([]model.Version, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.versions, nil
}

func (m *mockListing) UploadRelease(ctx context.Context, creds model.Credentials, up *model.Upload) error {
	if _, err := os.Stat(up.ArchivePath); err == nil {
		m.archiveSeenOnWire = true
	} else {
		m.archiveGoneAtStart = true
	}
	m.uploads = append(m.uploads, up)
	return m.uploadErr
}

func (m *mockListing) ScriptPageURL(scriptID int) string {
	return "https://listing.example/scripts/script.php?script_id=3114"
}

// mockCreds is a fixed CredentialStore
type mockCreds struct {
	creds     model.Credentials
	err       error
	lookups   []string
}

func (m *mockCreds) Lookup(host string) (model.Credentials, error) {
	m.lookups = append(m.lookups, host)
	if m.err != nil {
		return model.Credentials{}, m.err
	}
	return m.creds, nil
}

// mockGate is a scripted ApprovalGate
type mockGate struct {
	result string
	echo   bool // return the draft unchanged
	err    error
	drafts []string
}

func (m *mockGate) Approve(ctx context.Context, draft string) (string, error) {
	m.drafts = append(m.drafts, draft)
	if m.err != nil {
		return "", m.err
	}
	if m.echo {
		return draft, nil
	}
	return m.result, nil
}

// mockOpener records opened URLs
type mockOpener struct {
	urls []string
	err  error
}

func (m *mockOpener) Open(url string) error {
	m.urls = append(m.urls, url)
	return m.err
}

// mockHook is a scripted CommandHook
type mockHook struct {
	installed map[string]string
	runErr    error
	output    string
	outputErr error
	runCalls  [][]string
}

func (m *mockHook) Find(name string) (string, bool) {
	path, ok := m.installed[name]
	return path, ok
}

func (m *mockHook) Run(ctx context.Context, path string, args ...string) error {
	m.runCalls = append(m.runCalls, append([]string{path}, args...))
	return m.runErr
}

func (m *mockHook) Output(ctx context.Context, path string, args ...string) (string, error) {
	m.runCalls = append(m.runCalls, append([]string{path}, args...))
	if m.outputErr != nil {
		return "", m.outputErr
	}
	return m.output, nil
}
