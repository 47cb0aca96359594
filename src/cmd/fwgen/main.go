package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/fwgen/src/internal/api"
	"github.com/maksimkurb/fwgen/src/internal/commands"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/networking"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

// documentCommands write a document to stdout, so logs go to stderr.
var documentCommands = map[string]bool{
	"show":       true,
	"interfaces": true,
}

func main() {
	ctx := &commands.AppContext{}
	var netnsRunDir string

	flag.StringVar(&ctx.ConfigPath, "config", "/etc/fwgen/fwgen.toml", "Path to configuration file")
	flag.StringVar(&ctx.SnapshotDir, "snapshot-dir", "", "Snapshot base directory (overrides general.snapshot_dir)")
	flag.StringVar(&netnsRunDir, "netns-dir", networking.DefaultNetnsRunDir, "Directory holding named network namespaces")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Zone-based firewall compiler for iptables and ipset\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  apply                   Submit the compiled sets and rules\n")
		fmt.Fprintf(os.Stderr, "  save                    Snapshot the active rules and the compiled sets\n")
		fmt.Fprintf(os.Stderr, "  commit                  Apply, then save\n")
		fmt.Fprintf(os.Stderr, "  rollback                Restore the last snapshot (reset what has none)\n")
		fmt.Fprintf(os.Stderr, "  reset                   Accept everything and destroy all sets\n")
		fmt.Fprintf(os.Stderr, "  show                    Print compiled documents\n")
		fmt.Fprintf(os.Stderr, "  check                   Validate and compile the configuration\n")
		fmt.Fprintf(os.Stderr, "  verify                  Check that declared chains and sets are loaded\n")
		fmt.Fprintf(os.Stderr, "  interfaces              List host interfaces and their zones\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the HTTP API\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	if documentCommands[subcommand] {
		log.SetForceStdErr(true)
	}

	if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
	}

	// Snapshots are scoped to the namespace the process runs in.
	namespace, err := networking.NewNamespaceResolver(netnsRunDir).Current()
	if err != nil {
		log.Fatalf("Failed to resolve network namespace: %v", err)
	}
	ctx.Namespace = namespace
	if namespace != "" {
		log.Debugf("Running in network namespace %s", namespace)
	}

	api.Version, api.Commit, api.Date = version, commit, date

	cmds := []commands.Runner{
		commands.CreateApplyCommand(),
		commands.CreateSaveCommand(),
		commands.CreateCommitCommand(),
		commands.CreateRollbackCommand(),
		commands.CreateResetCommand(),
		commands.CreateShowCommand(),
		commands.CreateCheckCommand(),
		commands.CreateVerifyCommand(),
		commands.CreateInterfacesCommand(),
		commands.CreateServeCommand(),
	}

	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
