package hook

import (
	"context"
	"os"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
)

// Runner locates optional helper executables on the search path and
// runs them
type Runner struct{}

var _ interfaces.CommandHook = (*Runner)(nil)

// New creates a hook runner
func New() *Runner {
	return &Runner{}
}

// Find resolves an executable name on PATH. A missing executable is not
// an error, only a negative result.
func (*Runner) Find(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

func (*Runner) Run(ctx context.Context, path string, args ...string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "external command failed",
			goerr.V("command", append([]string{path}, args...)),
			goerr.T(types.ErrTagExternalCommand),
		)
	}
	return nil
}

func (*Runner) Output(ctx context.Context, path string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return "", goerr.Wrap(err, "external command failed",
			goerr.V("command", append([]string{path}, args...)),
			goerr.T(types.ErrTagExternalCommand),
		)
	}
	return string(out), nil
}
