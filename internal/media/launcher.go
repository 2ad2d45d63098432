// Package media opens posters and TMDB pages in external applications.
package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/display"
)

// Kind is the kind of target being opened.
type Kind int

const (
	KindImage Kind = iota
	KindPage
)

func (k Kind) String() string {
	if k == KindPage {
		return "page"
	}
	return "image"
}

// ErrNoPoster is returned when a movie has no poster to open.
var ErrNoPoster = errors.New("movie has no poster")

const movieWebBase = "https://www.themoviedb.org/movie/"

type Launcher struct {
	imageViewer   string
	browser       string
	defaultOpener string
	registry      *ViewerRegistry
	start         func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewViewerRegistry()
	if err != nil {
		// Continue with plain commands if definitions can't be loaded
		debuglog.Warnf("media: %v", err)
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition), goos: runtime.GOOS}
	}
	return newLauncher(cfg.Media, registry)
}

func newLauncher(mc config.MediaConfig, registry *ViewerRegistry) *Launcher {
	defaultOpener := mc.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = getDefaultOpener()
	}

	var viewers config.MediaViewers
	switch registry.goos {
	case "darwin":
		viewers = mc.Darwin
	case "linux":
		viewers = mc.Linux
	case "windows":
		viewers = mc.Windows
	default:
		viewers = mc.Darwin
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		registry:      registry,
		start:         startDetached,
	}
	l.imageViewer = registry.FindAvailableViewer(viewers.Image)
	l.browser = registry.FindAvailableViewer(viewers.Browser)

	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	if l.browser == "" {
		l.browser = l.defaultOpener
	}
	return l
}

// OpenPoster opens the card-size poster for a poster path.
func (l *Launcher) OpenPoster(posterPath string) error {
	if posterPath == "" {
		return ErrNoPoster
	}
	return l.Open(display.PosterURL(posterPath, display.SizeCard), KindImage)
}

// OpenMoviePage opens the movie's page on themoviedb.org.
func (l *Launcher) OpenMoviePage(id int64) error {
	return l.Open(MoviePageURL(id), KindPage)
}

// MoviePageURL returns the public TMDB page of a movie.
func MoviePageURL(id int64) string {
	return movieWebBase + strconv.FormatInt(id, 10)
}

// Open starts the viewer configured for kind on target without waiting
// for it to exit.
func (l *Launcher) Open(target string, kind Kind) error {
	if !strings.HasPrefix(target, "https://") && !strings.HasPrefix(target, "http://") {
		return fmt.Errorf("refusing to open non-web target %q", target)
	}

	viewerName := l.imageViewer
	if kind == KindPage {
		viewerName = l.browser
	}
	if viewerName == "" {
		return fmt.Errorf("no application found to open %s", kind)
	}

	cmd, err := l.registry.GetCommand(viewerName, kind, target)
	if err != nil {
		debuglog.Debugf("media: %v, falling back to %s", err, l.defaultOpener)
		cmd, err = l.registry.GetCommand(l.defaultOpener, kind, target)
		if err != nil {
			cmd = exec.Command(l.defaultOpener, target)
		}
	}

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", viewerName, err)
	}
	debuglog.Infof("media: opened %s with %s", target, viewerName)
	return nil
}

// startDetached starts GUI applications without blocking on them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}
