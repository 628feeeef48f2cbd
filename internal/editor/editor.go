// Package editor opens the reminder file in the user's editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	appLog "remind/internal/log"
)

// Fallback is used when neither the config nor the environment name an editor.
const Fallback = "vi"

// Resolve picks the editor command: the configured value, then $VISUAL,
// then $EDITOR, then Fallback.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return Fallback
}

// Command builds the editor process for path. editor may carry arguments,
// e.g. "code --wait"; path is always passed as the last argument.
func Command(ctx context.Context, editor, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, errors.New("editor: empty command")
	}
	if path == "" {
		return nil, errors.New("editor: empty path")
	}
	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Open runs the editor on path and waits for it to exit.
func Open(ctx context.Context, editor, path string) error {
	cmd, err := Command(ctx, editor, path)
	if err != nil {
		return err
	}
	appLog.Info("opening editor", "editor", editor, "path", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor: %s: %w", editor, err)
	}
	return nil
}
