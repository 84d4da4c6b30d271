package model

import "log/slog"

// Credentials authenticate against the listing service
type Credentials struct {
	Login    string
	Password string
}

// LogValue keeps the password out of log output
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("login", c.Login),
		slog.String("password", "[REDACTED]"),
	)
}

// Upload carries everything needed for one release submission
type Upload struct {
	ScriptID    int
	Version     Version
	Changelog   string
	ArchivePath string
}
