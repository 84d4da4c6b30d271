package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying failure kinds
var (
	// ErrTagExternalCommand marks a nonzero exit of an external process.
	// The failing argv is attached as the "command" value.
	ErrTagExternalCommand = goerr.NewTag("external_command")

	// ErrTagRemoteUnavailable marks a transport failure or non-success
	// HTTP status from the listing service
	ErrTagRemoteUnavailable = goerr.NewTag("remote_unavailable")
)

// Sentinel errors for expected data missing from a successfully fetched
// resource
var (
	ErrNoReleasesFound       = goerr.New("no previous releases found on the listing page")
	ErrVersionMarkerNotFound = goerr.New("version marker not found in autoload script")
	ErrPluginNotRegistered   = goerr.New("repository does not contain a registered plug-in")
)
