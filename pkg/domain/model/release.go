package model

// ReleaseOutcome classifies how a release run terminated
type ReleaseOutcome string

const (
	// OutcomeUpToDate means the published and committed versions match
	OutcomeUpToDate ReleaseOutcome = "up_to_date"
	// OutcomeNothingToRelease means the version range contains no commits
	OutcomeNothingToRelease ReleaseOutcome = "nothing_to_release"
	// OutcomeCanceled means the human cleared the changelog draft
	OutcomeCanceled ReleaseOutcome = "canceled"
	// OutcomeDryRun means all mutating steps were suppressed
	OutcomeDryRun ReleaseOutcome = "dry_run"
	// OutcomePublished means the release was uploaded
	OutcomePublished ReleaseOutcome = "published"
)

// ReleaseContext is the transient state of one orchestration run. It is
// created when a run starts and discarded when it ends, never persisted.
type ReleaseContext struct {
	Plugin           *Plugin
	PreviousVersion  Version
	CandidateVersion Version
	Changelog        Changelog
	DryRun           bool
}

// ReleaseReport summarizes a finished run for the CLI layer
type ReleaseReport struct {
	Outcome          ReleaseOutcome
	Plugin           string
	PreviousVersion  Version
	CandidateVersion Version
	ChangelogText    string
}
