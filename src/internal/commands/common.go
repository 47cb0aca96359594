package commands

import (
	"fmt"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/domain"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/service"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
	// SnapshotDir overrides general.snapshot_dir when not empty.
	SnapshotDir string
	// Namespace is the named network namespace of the process, resolved once at startup.
	Namespace string

	// Deps replaces the production dependencies when not nil.
	Deps *domain.AppDependencies
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
// This performs structural validation only. Compilation errors surface when the
// documents are built.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadConfigForRecovery loads configuration for rollback and reset. Their documents do
// not depend on rules, zones or sets, only on the managed families and the snapshot
// directory, so a configuration that fails validation is still used. A file that
// cannot be parsed is still an error.
func loadConfigForRecovery(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		log.Warnf("Configuration is invalid, continuing with its families and snapshot directory: %v", err)
	}

	return cfg, nil
}

// snapshotDir returns the snapshot base directory: the -snapshot-dir flag, else the
// configured one.
func (ctx *AppContext) snapshotDir(cfg *config.Config) string {
	if ctx.SnapshotDir != "" {
		return ctx.SnapshotDir
	}
	return cfg.GetAbsSnapshotDir()
}

// dependencies returns the injected dependencies or builds production ones.
func (ctx *AppContext) dependencies(cfg *config.Config) *domain.AppDependencies {
	if ctx.Deps != nil {
		return ctx.Deps
	}
	return domain.NewAppDependencies(domain.AppConfig{
		SnapshotDir: ctx.snapshotDir(cfg),
		Namespace:   ctx.Namespace,
	})
}

// newFirewallService wires a firewall service for cfg.
func newFirewallService(ctx *AppContext, cfg *config.Config) *service.FirewallService {
	deps := ctx.dependencies(cfg)
	return service.NewFirewallService(cfg, deps.RuleEngine(), deps.SetEngine(), deps.SnapshotStore())
}
