package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pelletier/go-toml/v2"
)

//go:embed viewers.toml
var viewersTOML []byte

// ViewerDefinition defines how an external viewer is invoked.
type ViewerDefinition struct {
	Description string `toml:"description"`
	// Command is the executable, when it differs from the viewer name.
	Command   string      `toml:"command,omitempty"`
	Platforms []string    `toml:"platforms"`
	Image     *KindConfig `toml:"image,omitempty"`
	Page      *KindConfig `toml:"page,omitempty"`
}

// KindConfig holds arguments for one kind of target.
type KindConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// ViewersConfig is the shape of viewers.toml.
type ViewersConfig struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

// ViewerRegistry manages viewer definitions.
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
	goos    string
}

// NewViewerRegistry loads the embedded definitions and merges user
// overrides from ~/.config/marquee/viewers.toml and ./viewers.toml.
func NewViewerRegistry() (*ViewerRegistry, error) {
	return newViewerRegistry("~/.config/marquee/viewers.toml", "./viewers.toml")
}

func newViewerRegistry(userPaths ...string) (*ViewerRegistry, error) {
	var cfg ViewersConfig
	if err := toml.Unmarshal(viewersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	if cfg.Viewers == nil {
		cfg.Viewers = make(map[string]ViewerDefinition)
	}

	registry := &ViewerRegistry{viewers: cfg.Viewers, goos: runtime.GOOS}
	registry.loadUserConfig(userPaths...)
	return registry, nil
}

// loadUserConfig merges definitions from the given files; later files win.
func (r *ViewerRegistry) loadUserConfig(paths ...string) {
	for _, path := range paths {
		if len(path) >= 2 && path[:2] == "~/" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var userConfig ViewersConfig
		if err := toml.Unmarshal(data, &userConfig); err != nil {
			debuglog.Warnf("media: ignoring %s: %v", path, err)
			continue
		}
		for name, def := range userConfig.Viewers {
			r.viewers[name] = def
		}
	}
}

// Lookup returns the definition for name.
func (r *ViewerRegistry) Lookup(name string) (ViewerDefinition, bool) {
	def, ok := r.viewers[name]
	return def, ok
}

// executable returns the program to run for a viewer name.
func (r *ViewerRegistry) executable(name string) string {
	if def, ok := r.viewers[name]; ok && def.Command != "" {
		return def.Command
	}
	return name
}

// GetCommand builds the command that opens target with the named viewer.
// Unknown viewers are run with the target as their only argument.
func (r *ViewerRegistry) GetCommand(name string, kind Kind, target string) (*exec.Cmd, error) {
	viewer, exists := r.viewers[name]
	if !exists {
		return exec.Command(name, target), nil
	}

	supported := false
	for _, p := range viewer.Platforms {
		if p == r.goos {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("%s not supported on %s", name, r.goos)
	}

	var kc *KindConfig
	switch kind {
	case KindImage:
		kc = viewer.Image
	case KindPage:
		kc = viewer.Page
	}
	if kc == nil {
		return nil, fmt.Errorf("%s cannot open %s targets", name, kind)
	}

	args := append([]string{}, r.getArgs(kc)...)
	args = append(args, target)
	return exec.Command(r.executable(name), args...), nil
}

// getArgs returns the args for the registry's platform.
func (r *ViewerRegistry) getArgs(kc *KindConfig) []string {
	if kc == nil {
		return nil
	}

	switch r.goos {
	case "darwin":
		if len(kc.ArgsDarwin) > 0 {
			return kc.ArgsDarwin
		}
	case "linux":
		if len(kc.ArgsLinux) > 0 {
			return kc.ArgsLinux
		}
	case "windows":
		if len(kc.ArgsWindows) > 0 {
			return kc.ArgsWindows
		}
	}
	return kc.Args
}

// IsViewerAvailable checks if a viewer's executable is installed.
func (r *ViewerRegistry) IsViewerAvailable(name string) bool {
	_, err := exec.LookPath(r.executable(name))
	return err == nil
}

// FindAvailableViewer returns the first installed viewer from names.
func (r *ViewerRegistry) FindAvailableViewer(names []string) string {
	for _, name := range names {
		if r.IsViewerAvailable(name) {
			return name
		}
	}
	return ""
}
