package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
)

// Client runs the external git command against a single repository
// directory. All operations are synchronous and a nonzero exit is
// surfaced as an external command failure carrying the argv.
type Client struct {
	dir string
}

var _ interfaces.GitClient = (*Client)(nil)

// New creates a git client bound to the given repository directory
func New(dir string) *Client {
	return &Client{dir: dir}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmdArgs := append([]string{"-C", c.dir}, args...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	output, err := cmd.Output()
	if err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("command", append([]string{"git"}, cmdArgs...)),
			goerr.T(types.ErrTagExternalCommand),
		)
	}
	return strings.TrimSpace(string(output)), nil
}

func (c *Client) RemoteOriginURL(ctx context.Context) (string, error) {
	return c.run(ctx, "config", "--get", "remote.origin.url")
}

func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	ref, err := c.run(ctx, "symbolic-ref", "HEAD")
	if err != nil {
		return "", err
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1], nil
}

func (c *Client) PushBranch(ctx context.Context, remote, branch string) error {
	_, err := c.run(ctx, "push", remote, branch)
	return err
}

func (c *Client) PushTags(ctx context.Context) error {
	_, err := c.run(ctx, "push", "--tags")
	return err
}

func (c *Client) ShowFile(ctx context.Context, path string) (string, error) {
	return c.run(ctx, "show", "HEAD:"+path)
}

func (c *Client) LogRange(ctx context.Context, since, until string) ([]model.Commit, error) {
	out, err := c.run(ctx, "log", "--pretty=oneline", "--abbrev-commit", since+".."+until)
	if err != nil {
		return nil, err
	}

	var commits []model.Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, " ")
		commits = append(commits, model.Commit{
			Hash:    hash,
			Subject: strings.TrimSpace(subject),
		})
	}
	return commits, nil
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "tag")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

func (c *Client) CreateTag(ctx context.Context, name string) error {
	_, err := c.run(ctx, "tag", name)
	return err
}

func (c *Client) Archive(ctx context.Context, dest string) error {
	_, err := c.run(ctx, "archive", "-o", dest, "HEAD")
	return err
}

func (c *Client) StageFile(ctx context.Context, path string) error {
	_, err := c.run(ctx, "add", path)
	return err
}

func (c *Client) CachedDiff(ctx context.Context, path string) (string, error) {
	return c.run(ctx, "diff", "--cached", path)
}
