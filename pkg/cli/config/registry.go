package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// Registry holds plug-in registry configuration
type Registry struct {
	Path string
}

// Flags returns CLI flags for registry configuration
func (c *Registry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the plug-in registry file",
			Value:       "~/.vimplugins.toml",
			Destination: &c.Path,
			Sources:     cli.EnvVars("VIMPUB_CONFIG"),
		},
	}
}

// registryFile mirrors the TOML layout of the registry file
type registryFile struct {
	Plugins map[string]pluginEntry `toml:"plugins"`
}

type pluginEntry struct {
	Directory      string `toml:"directory"`
	ScriptID       int    `toml:"script_id"`
	AutoloadScript string `toml:"autoload_script"`
	ZipFile        string `toml:"zip_file"`
	HelpFile       string `toml:"help_file"`
}

// Load parses the registry file into an immutable plug-in mapping.
// Every configured directory must be a git repository.
func (c *Registry) Load() (*model.Registry, error) {
	path, err := expandHome(c.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read registry file", goerr.V("path", path))
	}

	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse registry file", goerr.V("path", path))
	}

	plugins := make(map[string]*model.Plugin, len(file.Plugins))
	for name, entry := range file.Plugins {
		dir, err := expandHome(entry.Directory)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
			return nil, goerr.New("plug-in directory is not a git repository",
				goerr.V("plugin", name),
				goerr.V("directory", dir),
			)
		}
		plugins[name] = &model.Plugin{
			Name:           name,
			Directory:      dir,
			ScriptID:       entry.ScriptID,
			AutoloadScript: entry.AutoloadScript,
			ZipFile:        entry.ZipFile,
			HelpFile:       entry.HelpFile,
		}
	}

	return model.NewRegistry(plugins), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
