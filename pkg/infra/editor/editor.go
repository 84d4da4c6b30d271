package editor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Gate realizes the changelog approval step by launching an interactive
// editor on a draft file and reading the result back once the editor
// exits. The draft is transcoded to windows-1252 because that is the
// encoding the listing service expects. Clearing the buffer cancels the
// release.
type Gate struct {
	command []string
	path    string
}

var _ interfaces.ApprovalGate = (*Gate)(nil)

// New creates a gate using the given editor command line. An empty
// command falls back to $EDITOR and then vi.
func New(command string) *Gate {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = defaultEditor()
	}
	return &Gate{
		command: fields,
		path:    filepath.Join(os.TempDir(), "vimpub-changelog"),
	}
}

func defaultEditor() []string {
	if env := os.Getenv("EDITOR"); env != "" {
		return strings.Fields(env)
	}
	return []string{"vi"}
}

// Approve writes the draft to the temporary file, blocks on the editor
// session and returns the edited text. The draft file is removed on
// every exit path.
func (g *Gate) Approve(ctx context.Context, draft string) (string, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	raw, err := enc.Bytes([]byte(draft))
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode changelog draft")
	}
	if err := os.WriteFile(g.path, raw, 0600); err != nil {
		return "", goerr.Wrap(err, "failed to write changelog draft", goerr.V("path", g.path))
	}
	defer os.Remove(g.path)

	args := append(append([]string{}, g.command[1:]...), g.path)
	cmd := exec.CommandContext(ctx, g.command[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "editor session failed",
			goerr.V("command", append([]string{g.command[0]}, args...)),
			goerr.T(types.ErrTagExternalCommand),
		)
	}

	edited, err := os.ReadFile(g.path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read edited changelog", goerr.V("path", g.path))
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(edited)
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode edited changelog")
	}
	return strings.TrimRight(string(decoded), " \t\r\n"), nil
}
