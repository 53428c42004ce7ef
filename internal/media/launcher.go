package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/debuglog"
	"github.com/pders01/stargaze/internal/feed"
)

var ErrNothingToOpen = errors.New("nothing to open")

// Launcher opens gallery media in an external viewer.
type Launcher struct {
	video   string
	image   string
	opener  string
	viewers *Viewers
	start   func(cmd *exec.Cmd) error
}

// NewLauncher picks the first installed video player and image viewer for
// this platform from cfg. Anything missing falls back to the default opener.
func NewLauncher(cfg *config.Config) *Launcher {
	viewers, err := LoadViewers()
	if err != nil {
		debuglog.Warnf("media: %v", err)
		viewers = newViewers(nil)
	}
	return newLauncher(cfg.Media, viewers, runtime.GOOS)
}

func newLauncher(mc config.MediaConfig, viewers *Viewers, goos string) *Launcher {
	opener := mc.DefaultOpener
	if opener == "" {
		opener = config.DefaultOpener()
	}

	candidates := mc.Darwin
	switch goos {
	case "linux":
		candidates = mc.Linux
	case "windows":
		candidates = mc.Windows
	}

	l := &Launcher{
		video:   viewers.FirstInstalled(candidates.Video),
		image:   viewers.FirstInstalled(candidates.Image),
		opener:  opener,
		viewers: viewers,
		start:   startDetached,
	}
	if l.video == "" {
		l.video = opener
	}
	if l.image == "" {
		l.image = opener
	}
	return l
}

func (l *Launcher) programFor(kind feed.MediaKind) string {
	switch kind {
	case feed.MediaVideo:
		return l.video
	case feed.MediaImage:
		return l.image
	}
	return l.opener
}

// Command returns the command that would open url as kind. A viewer that
// cannot handle kind is still given the bare URL.
func (l *Launcher) Command(url string, kind feed.MediaKind) (*exec.Cmd, error) {
	if url == "" {
		return nil, ErrNothingToOpen
	}
	program := l.programFor(kind)
	if program == "" {
		return nil, fmt.Errorf("no application configured for %s", kind)
	}

	cmd, err := l.viewers.Command(program, kind, url)
	if err != nil {
		debuglog.Debugf("media: %v, passing url directly", err)
		cmd = exec.Command(program, url)
	}
	return cmd, nil
}

// Open starts the viewer for url without waiting for it to exit.
func (l *Launcher) Open(url string, kind feed.MediaKind) error {
	cmd, err := l.Command(url, kind)
	if err != nil {
		return err
	}

	debuglog.WithFields(debuglog.Fields{"cmd": cmd.Path, "kind": string(kind)}).Debugf("opening media")

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
	}
	return nil
}

// OpenItem opens the best URL of a gallery item.
func (l *Launcher) OpenItem(item feed.DisplayItem) error {
	return l.Open(item.OpenURL(), item.Kind)
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
