package model

import (
	"sort"
	"strings"
)

// Plugin holds the registration data of one managed Vim plug-in
type Plugin struct {
	Name           string // GitHub repository in owner/repo form
	Directory      string // Local git repository path
	ScriptID       int    // Script ID on the listing service
	AutoloadScript string // Tracked file embedding the version marker
	ZipFile        string // Release archive file name
	HelpFile       string // Generated help file name
}

// RepoURL returns the public repository URL
func (p *Plugin) RepoURL() string {
	return "https://github.com/" + p.Name
}

// CommitURL returns the public URL of a single commit
func (p *Plugin) CommitURL(hash string) string {
	return p.RepoURL() + "/commit/" + hash
}

// VersionVariable derives the Vim variable that embeds the plug-in
// version from the autoload script path, e.g.
// autoload/xolox/easytags.vim -> g:xolox#easytags#version
func (p *Plugin) VersionVariable() string {
	path := strings.TrimPrefix(p.AutoloadScript, "autoload/")
	path = strings.TrimSuffix(path, ".vim")
	return "g:" + strings.ReplaceAll(path, "/", "#") + "#version"
}

// Registry is an immutable name-to-plugin mapping built once at startup
// and shared read-only with the use cases.
type Registry struct {
	plugins map[string]*Plugin
}

// NewRegistry copies the given mapping so later changes to the argument
// cannot leak into the registry
func NewRegistry(plugins map[string]*Plugin) *Registry {
	copied := make(map[string]*Plugin, len(plugins))
	for name, plugin := range plugins {
		copied[name] = plugin
	}
	return &Registry{plugins: copied}
}

// Get looks up a plug-in by its owner/repo name
func (r *Registry) Get(name string) (*Plugin, bool) {
	plugin, ok := r.plugins[name]
	return plugin, ok
}

// Len returns the number of registered plug-ins
func (r *Registry) Len() int {
	return len(r.plugins)
}

// Sorted returns all plug-ins ordered by repository basename,
// case-insensitive
func (r *Registry) Sorted() []*Plugin {
	out := make([]*Plugin, 0, len(r.plugins))
	for _, plugin := range r.plugins {
		out = append(out, plugin)
	}
	sort.Slice(out, func(i, j int) bool {
		return repoKey(out[i]) < repoKey(out[j])
	})
	return out
}

func repoKey(p *Plugin) string {
	name := p.Name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ToLower(name)
}
