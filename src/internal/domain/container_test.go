package domain

import (
	"path/filepath"
	"testing"

	"github.com/maksimkurb/fwgen/src/internal/networking"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

// Production implementations satisfy the domain interfaces.
var (
	_ RuleEngine      = (*networking.RuleEngine)(nil)
	_ SetEngine       = (*networking.IPSetEngine)(nil)
	_ ChainInspector  = (*networking.ChainInspector)(nil)
	_ InterfaceLister = (*networking.NetlinkInterfaceLister)(nil)
	_ SnapshotStore   = (*snapshot.Store)(nil)
)

func TestNewAppDependencies(t *testing.T) {
	t.Run("Default configuration", func(t *testing.T) {
		deps := NewAppDependencies(AppConfig{})

		if deps.RuleEngine() == nil {
			t.Error("Expected rule engine to be created")
		}
		if deps.SetEngine() == nil {
			t.Error("Expected set engine to be created")
		}
		if deps.InterfaceLister() == nil {
			t.Error("Expected interface lister to be created")
		}
		if deps.SnapshotStore().Dir() != "/etc" {
			t.Errorf("Expected default snapshot dir /etc, got %s", deps.SnapshotStore().Dir())
		}
	})

	t.Run("Namespaced snapshot dir", func(t *testing.T) {
		base := t.TempDir()
		deps := NewAppDependencies(AppConfig{SnapshotDir: base, Namespace: "blue"})

		expected := filepath.Join(base, "netns", "blue")
		if deps.SnapshotStore().Dir() != expected {
			t.Errorf("Expected snapshot dir %s, got %s", expected, deps.SnapshotStore().Dir())
		}
	})
}

func TestNewTestDependencies(t *testing.T) {
	store := snapshot.NewStore(t.TempDir(), "")
	deps := NewTestDependencies(nil, nil, store, nil)

	if deps.SnapshotStore() != store {
		t.Error("Expected injected snapshot store to be returned")
	}
	if deps.RuleEngine() != nil {
		t.Error("Expected nil rule engine")
	}
}
