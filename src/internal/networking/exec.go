package networking

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner runs an external command, feeding stdin when it is non-nil, and returns
// its standard output. Engines take one so tests can replace the host binaries.
type commandRunner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// execCommand is the commandRunner backed by os/exec.
func execCommand(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	if err := CheckExecutable(name); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// CheckExecutable verifies that a command is available in PATH.
func CheckExecutable(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("failed to find %s command: %v", name, err)
	}
	return nil
}
