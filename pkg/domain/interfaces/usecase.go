package interfaces

import (
	"context"

	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// ReleaseUseCase drives one release publication run
type ReleaseUseCase interface {
	// PublishRelease runs the full release pipeline for the plug-in in
	// the current working directory. Callers must not invoke it
	// concurrently for the same plug-in.
	PublishRelease(ctx context.Context, dryRun bool) (*model.ReleaseReport, error)
}

// MaintenanceUseCase implements the shared git hook actions
type MaintenanceUseCase interface {
	// InstallHooks writes pre/post-commit wrapper scripts for every
	// registered plug-in
	InstallHooks(ctx context.Context) error

	// PreCommit runs repository checks before a commit is made
	PreCommit(ctx context.Context) error

	// PostCommit tags the committed version after a commit on the
	// release branch
	PostCommit(ctx context.Context) error
}
