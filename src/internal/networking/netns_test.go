package networking

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestNamespaceResolver_Lookup(t *testing.T) {
	runDir := t.TempDir()
	for _, name := range []string{"blue", "red"} {
		if err := os.WriteFile(filepath.Join(runDir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var st unix.Stat_t
	if err := unix.Stat(filepath.Join(runDir, "red"), &st); err != nil {
		t.Fatal(err)
	}

	r := NewNamespaceResolver(runDir)
	name, err := r.lookup(uint64(st.Dev), st.Ino)
	if err != nil {
		t.Fatalf("lookup() error: %v", err)
	}
	if name != "red" {
		t.Errorf("lookup() = %q, want red", name)
	}

	name, err = r.lookup(uint64(st.Dev), st.Ino+1000000)
	if err != nil || name != "" {
		t.Errorf("expected no match, got %q (%v)", name, err)
	}
}

func TestNamespaceResolver_MissingRunDir(t *testing.T) {
	r := NewNamespaceResolver(filepath.Join(t.TempDir(), "absent"))

	name, err := r.lookup(1, 1)
	if err != nil {
		t.Fatalf("a missing run dir means no named namespaces, got %v", err)
	}
	if name != "" {
		t.Errorf("lookup() = %q, want empty", name)
	}
}

func TestNewNamespaceResolver_Default(t *testing.T) {
	if r := NewNamespaceResolver(""); r.runDir != DefaultNetnsRunDir {
		t.Errorf("runDir = %q, want %q", r.runDir, DefaultNetnsRunDir)
	}
}
