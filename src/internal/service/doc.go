// Package service provides business logic orchestration layer for fwgen.
//
// This package contains service layer components that orchestrate operations across
// the compiler, the host engines and the snapshot store. Services act as a bridge
// between the command layer (CLI/API) and the domain layer.
//
// # Key Services
//
// FirewallService: the firewall lifecycle. Apply submits compiled documents, Save
// snapshots the active state, Commit does both, Rollback restores the last snapshot
// and Reset tears everything down to ACCEPT with no sets.
//
// ValidationService: configuration validation plus host checks for zone interfaces.
//
// # Example Usage
//
//	deps := domain.NewAppDependencies(domain.AppConfig{SnapshotDir: "/etc"})
//	fw := service.NewFirewallService(cfg, deps.RuleEngine(), deps.SetEngine(), deps.SnapshotStore())
//
//	if err := fw.Commit(ctx); err != nil {
//	    log.Errorf("Commit failed: %v", err)
//	}
package service
