// Package env resolves the process environment the job runner operates in:
// a writable root directory for persisted state, and whether the session is
// attached to an interactive terminal.
package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// JobsDirName is the subdirectory of the root that holds one directory
// per job.
const JobsDirName = "jobs"

// ResolveRoot picks the first writable root directory from, in order: the
// explicit override (if non-empty), $XDG_STATE_HOME/aliases (falling back to
// ~/.local/state/aliases), the system temp directory, and ./.aliases. The
// chosen root and its jobs subdirectory are created if missing. When no
// candidate is writable a configuration error is returned; there is no
// further fallback.
func ResolveRoot(override string) (string, error) {
	var candidates []string
	if override != "" {
		candidates = append(candidates, override)
	}
	if state := stateHome(); state != "" {
		candidates = append(candidates, filepath.Join(state, "aliases"))
	}
	candidates = append(candidates,
		filepath.Join(os.TempDir(), "aliases"),
		".aliases",
	)

	for _, dir := range candidates {
		if err := prepare(dir); err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no writable job root among %v (set ALIASES_ROOT_DIR to override)", candidates)
}

// prepare creates dir and its jobs subdirectory, then verifies dir is
// actually writable. Existence alone is not enough: the directory may sit
// on a read-only mount.
func prepare(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, JobsDirName), 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func stateHome() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state")
}

// IsInteractive reports whether both stdin and stdout are attached to a
// real terminal device. forceNonInteractive wins over actual terminal
// attachment, for scripted invocations.
func IsInteractive(forceNonInteractive bool) bool {
	if forceNonInteractive {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
