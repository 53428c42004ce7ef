package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/stargaze/internal/feed"
)

//go:embed viewers.toml
var builtinViewers []byte

const kindPage = "page"

// Viewer describes how to hand a URL to an external program.
type Viewer struct {
	Description string                         `toml:"description"`
	Platforms   []string                       `toml:"platforms"`
	Args        map[string][]string            `toml:"args"`
	OS          map[string]map[string][]string `toml:"os,omitempty"`
}

func (v Viewer) runsOn(goos string) bool {
	return slices.Contains(v.Platforms, goos)
}

// argsFor returns the arguments for kind on goos and whether the viewer
// handles that kind at all.
func (v Viewer) argsFor(kind, goos string) ([]string, bool) {
	if args, ok := v.OS[goos][kind]; ok {
		return args, true
	}
	args, ok := v.Args[kind]
	return args, ok
}

type viewersFile struct {
	Viewers map[string]Viewer `toml:"viewers"`
}

// Viewers is the set of known viewer definitions keyed by executable name.
type Viewers struct {
	defs     map[string]Viewer
	goos     string
	lookPath func(string) (string, error)
}

// LoadViewers reads the built-in definitions and overlays
// ~/.config/stargaze/viewers.toml when present.
func LoadViewers() (*Viewers, error) {
	defs, err := decodeViewers(builtinViewers)
	if err != nil {
		return nil, err
	}
	v := newViewers(defs)

	if home, err := os.UserHomeDir(); err == nil {
		v.overlay(filepath.Join(home, ".config", "stargaze", "viewers.toml"))
	}
	return v, nil
}

func newViewers(defs map[string]Viewer) *Viewers {
	if defs == nil {
		defs = make(map[string]Viewer)
	}
	return &Viewers{defs: defs, goos: runtime.GOOS, lookPath: exec.LookPath}
}

func decodeViewers(data []byte) (map[string]Viewer, error) {
	var file viewersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	return file.Viewers, nil
}

// overlay replaces definitions by name from path. A missing or unreadable
// file leaves the set unchanged.
func (v *Viewers) overlay(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	defs, err := decodeViewers(data)
	if err != nil {
		return
	}
	for name, def := range defs {
		v.defs[name] = def
	}
}

// Command builds the invocation of name for url. Programs without a
// definition get the URL as their only argument.
func (v *Viewers) Command(name string, kind feed.MediaKind, url string) (*exec.Cmd, error) {
	def, ok := v.defs[name]
	if !ok {
		return exec.Command(name, url), nil
	}
	if !def.runsOn(v.goos) {
		return nil, fmt.Errorf("%s not supported on %s", name, v.goos)
	}

	k := kindPage
	if kind == feed.MediaImage || kind == feed.MediaVideo {
		k = string(kind)
	}
	args, ok := def.argsFor(k, v.goos)
	if !ok {
		return nil, fmt.Errorf("%s cannot open %s", name, k)
	}
	return exec.Command(name, append(slices.Clone(args), url)...), nil
}

// FirstInstalled returns the first candidate found on PATH, or "".
func (v *Viewers) FirstInstalled(candidates []string) string {
	for _, name := range candidates {
		if _, err := v.lookPath(name); err == nil {
			return name
		}
	}
	return ""
}
