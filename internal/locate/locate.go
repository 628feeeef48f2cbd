// Package locate finds the reminder file among a list of candidate paths.
package locate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	appLog "remind/internal/log"
	"remind/internal/remind"
)

// FileName is the reminder file name looked up in every candidate directory.
const FileName = "remind.txt"

// DefaultCandidates returns the lookup order: the system-wide file, the
// user's home directory, then the directory holding the executable.
// Directories that cannot be resolved are left out.
func DefaultCandidates() []string {
	candidates := []string{filepath.Join("/etc", FileName)}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), FileName))
	}
	return candidates
}

// Find returns the first candidate that exists as a regular file. Lookup
// stops at the first hit. When nothing matches the error wraps
// remind.KindFileNotFound.
func Find(candidates []string) (string, error) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				appLog.Warn("reminder file candidate unreadable", "path", path, "err", err)
			}
			continue
		}
		if info.IsDir() {
			appLog.Debug("reminder file candidate is a directory", "path", path)
			continue
		}
		appLog.Debug("reminder file found", "path", path)
		return path, nil
	}
	return "", &remind.Error{
		Kind:  remind.KindFileNotFound,
		Input: fmt.Sprint(candidates),
	}
}
