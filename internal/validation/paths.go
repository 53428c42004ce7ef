package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// PathValidator checks the on-disk locations stargaze writes to: the history
// database, the config file and the debug log.
type PathValidator struct {
	// AllowedBaseDirs restricts paths to these directories. Empty allows any.
	AllowedBaseDirs []string
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

// NewPathValidator only accepts paths below the stargaze data and config
// directories or the temp dir.
func NewPathValidator() *PathValidator {
	homeDir, _ := os.UserHomeDir()
	return &PathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".stargaze"),
			filepath.Join(homeDir, ".config", "stargaze"),
			os.TempDir(),
		},
		MaxPathLength: maxPathLength,
	}
}

// NewPermissivePathValidator accepts any directory. It is used for paths the
// user passes explicitly on the command line.
func NewPermissivePathValidator() *PathValidator {
	return &PathValidator{MaxPathLength: maxPathLength}
}

// ValidateFile expands ~/, makes path absolute and rejects traversal,
// control characters, directories and anything outside AllowedBaseDirs.
func (v *PathValidator) ValidateFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	for _, r := range path {
		if r < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if !v.within(abs) {
		return "", fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", abs)
	}

	return abs, nil
}

// EnsureParentDir validates path and creates its parent directory.
func (v *PathValidator) EnsureParentDir(path string) (string, error) {
	validated, err := v.ValidateFile(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(validated), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return validated, nil
}

// DBPath returns the validated history database path, defaulting to
// ~/.stargaze/history.db.
func (v *PathValidator) DBPath(userPath string) (string, error) {
	return v.withDefault(userPath, ".stargaze", "history.db")
}

// ConfigPath returns the validated config path, defaulting to
// ~/.config/stargaze/config.toml.
func (v *PathValidator) ConfigPath(userPath string) (string, error) {
	return v.withDefault(userPath, ".config", "stargaze", "config.toml")
}

// LogPath returns the validated debug log path, defaulting to
// ~/.stargaze/stargaze.log.
func (v *PathValidator) LogPath(userPath string) (string, error) {
	return v.withDefault(userPath, ".stargaze", "stargaze.log")
}

func (v *PathValidator) withDefault(userPath string, def ...string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(append([]string{homeDir}, def...)...)
	}
	return v.ValidateFile(userPath)
}

func (v *PathValidator) within(abs string) bool {
	if len(v.AllowedBaseDirs) == 0 {
		return true
	}
	for _, base := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
	}
	if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage in %q", path)
	}
	return path, nil
}
