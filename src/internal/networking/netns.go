package networking

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// DefaultNetnsRunDir is where `ip netns add` bind-mounts named namespaces.
const DefaultNetnsRunDir = "/run/netns"

// NamespaceResolver finds the name of the network namespace the process runs in.
type NamespaceResolver struct {
	runDir string
}

// NewNamespaceResolver creates a resolver that looks up names in runDir.
// An empty runDir means DefaultNetnsRunDir.
func NewNamespaceResolver(runDir string) *NamespaceResolver {
	if runDir == "" {
		runDir = DefaultNetnsRunDir
	}
	return &NamespaceResolver{runDir: runDir}
}

// Current returns the name under which the current network namespace is mounted in the
// run directory, or "" when the process is in an unnamed (usually the default) namespace.
func (r *NamespaceResolver) Current() (string, error) {
	handle, err := netns.Get()
	if err != nil {
		return "", fmt.Errorf("failed to open current network namespace: %w", err)
	}
	defer handle.Close()

	var st unix.Stat_t
	if err := unix.Fstat(int(handle), &st); err != nil {
		return "", fmt.Errorf("failed to stat current network namespace: %w", err)
	}
	return r.lookup(uint64(st.Dev), st.Ino)
}

// lookup returns the entry of the run directory whose device and inode match.
func (r *NamespaceResolver) lookup(dev, ino uint64) (string, error) {
	entries, err := os.ReadDir(r.runDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", r.runDir, err)
	}

	for _, entry := range entries {
		var st unix.Stat_t
		if err := unix.Stat(filepath.Join(r.runDir, entry.Name()), &st); err != nil {
			continue
		}
		if uint64(st.Dev) == dev && st.Ino == ino {
			return entry.Name(), nil
		}
	}
	return "", nil
}
