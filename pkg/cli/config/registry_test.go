package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/vimpub/pkg/cli/config"
)

func TestRegistryLoad(t *testing.T) {
	pluginDir := t.TempDir()
	gt.NoError(t, os.Mkdir(filepath.Join(pluginDir, ".git"), 0700))

	path := filepath.Join(t.TempDir(), "vimplugins.toml")
	content := `
[plugins."xolox/vim-easytags"]
directory = "` + pluginDir + `"
script_id = 3114
autoload_script = "autoload/xolox/easytags.vim"
zip_file = "easytags.zip"
help_file = "easytags.txt"
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := &config.Registry{Path: path}
	registry, err := cfg.Load()
	gt.NoError(t, err)
	gt.Number(t, registry.Len()).Equal(1)

	plugin, ok := registry.Get("xolox/vim-easytags")
	gt.True(t, ok)
	gt.Value(t, plugin.Directory).Equal(pluginDir)
	gt.Number(t, plugin.ScriptID).Equal(3114)
	gt.Value(t, plugin.AutoloadScript).Equal("autoload/xolox/easytags.vim")
	gt.Value(t, plugin.ZipFile).Equal("easytags.zip")
	gt.Value(t, plugin.HelpFile).Equal("easytags.txt")
}

func TestRegistryLoad_NotARepository(t *testing.T) {
	pluginDir := t.TempDir() // no .git inside

	path := filepath.Join(t.TempDir(), "vimplugins.toml")
	content := `
[plugins."xolox/vim-easytags"]
directory = "` + pluginDir + `"
script_id = 3114
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := &config.Registry{Path: path}
	_, err := cfg.Load()
	gt.Error(t, err)
}

func TestRegistryLoad_MissingFile(t *testing.T) {
	cfg := &config.Registry{Path: filepath.Join(t.TempDir(), "no-such.toml")}
	_, err := cfg.Load()
	gt.Error(t, err)
}

func TestRegistryLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vimplugins.toml")
	gt.NoError(t, os.WriteFile(path, []byte("[plugins\nbroken"), 0600))

	cfg := &config.Registry{Path: path}
	_, err := cfg.Load()
	gt.Error(t, err)
}
