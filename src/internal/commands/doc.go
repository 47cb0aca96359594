// Package commands implements CLI command handlers for fwgen.
//
// Each command implements the Runner interface and delegates business logic to
// the service layer.
//
// # Command Structure
//
// All commands follow a consistent pattern:
//   - Init(): Parse arguments and load the configuration
//   - Run(): Execute command using service layer
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - apply: Submit the compiled sets and rules
//   - save: Snapshot the active rules and the compiled sets
//   - commit: apply, then save
//   - rollback: Restore the last snapshot, reset whatever has none
//   - reset: Accept everything and destroy all sets
//   - show: Print compiled documents without submitting them
//   - check: Validate and compile the configuration
//   - verify: Compare declared chains and sets with the host
//   - interfaces: List host interfaces and their zones
//   - serve: Run the HTTP API
//
// # Example Usage
//
//	cmd := commands.CreateCommitCommand()
//	ctx := &commands.AppContext{
//	    ConfigPath: "/etc/fwgen.toml",
//	    Namespace:  "blue",
//	}
//	if err := cmd.Init(args, ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatal(err)
//	}
package commands
