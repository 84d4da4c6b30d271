package config

import "github.com/urfave/cli/v3"

// VimOnline holds listing service configuration
type VimOnline struct {
	BaseURL   string
	NetrcPath string
	Editor    string
}

// Flags returns CLI flags for listing service configuration
func (c *VimOnline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the plug-in listing service",
			Value:       "https://www.vim.org",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("VIMPUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "netrc",
			Usage:       "Path to the netrc credentials file",
			Value:       "~/.netrc",
			Destination: &c.NetrcPath,
			Sources:     cli.EnvVars("VIMPUB_NETRC"),
		},
		&cli.StringFlag{
			Name:        "editor",
			Usage:       "Editor command for changelog approval (defaults to $EDITOR, then vi)",
			Destination: &c.Editor,
			Sources:     cli.EnvVars("VIMPUB_EDITOR"),
		},
	}
}

// ResolveNetrcPath expands the configured credentials file path
func (c *VimOnline) ResolveNetrcPath() (string, error) {
	return expandHome(c.NetrcPath)
}
