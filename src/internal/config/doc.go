// Package config handles configuration file parsing and validation for fwgen.
//
// The configuration is a TOML file describing:
//   - general settings (snapshot directory, managed protocol families, API address)
//   - global default policies, helper chains and hooked rules (pre_default, default, pre_zone)
//   - zones: named interface groups with per-table, per-chain rule fragments
//   - variables substituted into rules as ${NAME}
//   - address sets created before the rules are applied
//
// Sections whose order is significant are TOML arrays of tables, so the order of
// declaration in the file is the order in which rules are emitted.
//
// Loading and validating a configuration file:
//
//	cfg, err := config.LoadConfig("/etc/fwgen/fwgen.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    return err // config.ValidationErrors lists every problem found
//	}
package config
