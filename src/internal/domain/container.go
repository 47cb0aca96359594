package domain

import (
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/networking"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// This container provides a centralized place to manage dependencies and enables:
//   - Easy testing with mock implementations
//   - Explicit dependency management instead of global state
//
// Usage:
//
//	deps := domain.NewAppDependencies(domain.AppConfig{
//	    SnapshotDir: "/etc",
//	    Namespace:   "blue",
//	})
//	engine := deps.RuleEngine()
type AppDependencies struct {
	ruleEngine      RuleEngine
	setEngine       SetEngine
	snapshotStore   SnapshotStore
	interfaceLister InterfaceLister
}

// AppConfig holds configuration for creating application dependencies.
type AppConfig struct {
	// SnapshotDir is the base directory for snapshots.
	// If empty, defaults to config.DefaultSnapshotDir.
	SnapshotDir string

	// Namespace is the named network namespace the process runs in, or "" for the
	// default namespace. It is resolved once by the caller.
	Namespace string
}

// NewAppDependencies creates a new dependency container with production implementations.
//
// For testing, use NewTestDependencies or inject mocks directly.
func NewAppDependencies(cfg AppConfig) *AppDependencies {
	snapshotDir := cfg.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = config.DefaultSnapshotDir
	}

	return &AppDependencies{
		ruleEngine:      networking.NewRuleEngine(),
		setEngine:       networking.NewIPSetEngine(),
		snapshotStore:   snapshot.NewStore(snapshotDir, cfg.Namespace),
		interfaceLister: networking.NewInterfaceLister(),
	}
}

// NewTestDependencies creates a dependency container with mock implementations.
//
// Provide mock implementations for any dependencies you want to control in your tests.
func NewTestDependencies(
	ruleEngine RuleEngine,
	setEngine SetEngine,
	snapshotStore SnapshotStore,
	interfaceLister InterfaceLister,
) *AppDependencies {
	return &AppDependencies{
		ruleEngine:      ruleEngine,
		setEngine:       setEngine,
		snapshotStore:   snapshotStore,
		interfaceLister: interfaceLister,
	}
}

// RuleEngine returns the packet-filter engine.
func (d *AppDependencies) RuleEngine() RuleEngine {
	return d.ruleEngine
}

// SetEngine returns the address-set engine.
func (d *AppDependencies) SetEngine() SetEngine {
	return d.setEngine
}

// SnapshotStore returns the snapshot store.
func (d *AppDependencies) SnapshotStore() SnapshotStore {
	return d.snapshotStore
}

// InterfaceLister returns the host interface lister.
func (d *AppDependencies) InterfaceLister() InterfaceLister {
	return d.interfaceLister
}
