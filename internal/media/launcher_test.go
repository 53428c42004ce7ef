package media

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/stargaze/internal/config"
	"github.com/pders01/stargaze/internal/feed"
)

func testLauncher(started *[]*exec.Cmd) *Launcher {
	return &Launcher{
		video:   "video-player",
		image:   "image-viewer",
		opener:  "opener",
		viewers: newViewers(nil),
		start: func(cmd *exec.Cmd) error {
			*started = append(*started, cmd)
			return nil
		},
	}
}

func TestLauncher_Open(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		kind    feed.MediaKind
		program string
	}{
		{"video", "https://www.youtube.com/embed/abc", feed.MediaVideo, "video-player"},
		{"image", "https://apod.nasa.gov/apod/image/m31.jpg", feed.MediaImage, "image-viewer"},
		{"page", "https://apod.nasa.gov/apod/ap250920.html", "", "opener"},
		{"unknown kind", "https://apod.nasa.gov/x", "other", "opener"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var started []*exec.Cmd
			l := testLauncher(&started)

			require.NoError(t, l.Open(tt.url, tt.kind))
			require.Len(t, started, 1)
			assert.Equal(t, tt.program, started[0].Args[0])
			assert.Equal(t, tt.url, started[0].Args[len(started[0].Args)-1])
		})
	}
}

func TestLauncher_OpenEmptyURL(t *testing.T) {
	var started []*exec.Cmd
	l := testLauncher(&started)

	assert.ErrorIs(t, l.Open("", feed.MediaImage), ErrNothingToOpen)
	assert.Empty(t, started)
}

func TestLauncher_UnsupportedKindFallsBackToBareURL(t *testing.T) {
	var started []*exec.Cmd
	l := testLauncher(&started)
	l.viewers = testViewers("linux")
	l.video = "mpv"

	cmd, err := l.Command("https://www.youtube.com/embed/abc", feed.MediaVideo)
	require.NoError(t, err)
	assert.Equal(t, []string{"mpv", "--really-quiet", "https://www.youtube.com/embed/abc"}, cmd.Args)

	l.opener = "mpv"
	cmd, err = l.Command("https://apod.nasa.gov/apod/ap250920.html", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"mpv", "https://apod.nasa.gov/apod/ap250920.html"}, cmd.Args)
}

func TestLauncher_OpenStartFailure(t *testing.T) {
	l := &Launcher{
		image:   "image-viewer",
		viewers: newViewers(nil),
		start:   func(*exec.Cmd) error { return errors.New("exec failed") },
	}

	err := l.Open("https://img/a.jpg", feed.MediaImage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image-viewer")
}

func TestLauncher_OpenItem(t *testing.T) {
	var started []*exec.Cmd
	l := testLauncher(&started)

	item := feed.Normalize(feed.Record{
		Date:         "2025-09-24",
		Title:        "Solar Flare Timelapse",
		MediaType:    feed.MediaVideo,
		URL:          "https://www.youtube.com/embed/flare",
		ThumbnailURL: "https://img.youtube.com/vi/flare/0.jpg",
	})

	require.NoError(t, l.OpenItem(item))
	require.Len(t, started, 1)
	assert.Equal(t, "video-player", started[0].Args[0])
	assert.Equal(t, "https://www.youtube.com/embed/flare", started[0].Args[1])
}

func TestNewLauncher_PicksPerPlatform(t *testing.T) {
	viewers := newViewers(nil)
	viewers.lookPath = func(name string) (string, error) {
		switch name {
		case "iina", "feh":
			return "/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	mc := config.MediaConfig{
		DefaultOpener: "my-opener",
		Darwin:        config.MediaPlayers{Video: []string{"mpv", "iina"}, Image: []string{"mpv"}},
		Linux:         config.MediaPlayers{Video: []string{"mpv"}, Image: []string{"imv", "feh"}},
	}

	mac := newLauncher(mc, viewers, "darwin")
	assert.Equal(t, "iina", mac.video)
	assert.Equal(t, "my-opener", mac.image, "missing viewers fall back to the default opener")

	linux := newLauncher(mc, viewers, "linux")
	assert.Equal(t, "my-opener", linux.video)
	assert.Equal(t, "feh", linux.image)
}

func TestNewLauncher(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := config.TestConfig()
	cfg.Media.DefaultOpener = ""

	l := NewLauncher(cfg)
	assert.Equal(t, config.DefaultOpener(), l.opener)
	assert.NotNil(t, l.viewers)
}
