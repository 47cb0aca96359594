package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/service"
)

type lifecycleAction func(fw *service.FirewallService, ctx context.Context) error

type configLoader func(configPath string) (*config.Config, error)

func CreateApplyCommand() *LifecycleCommand {
	return newLifecycleCommand("apply", "Applied", (*service.FirewallService).Apply, loadAndValidateConfigOrFail)
}

func CreateSaveCommand() *LifecycleCommand {
	return newLifecycleCommand("save", "Saved", (*service.FirewallService).Save, loadAndValidateConfigOrFail)
}

func CreateCommitCommand() *LifecycleCommand {
	return newLifecycleCommand("commit", "Committed", (*service.FirewallService).Commit, loadAndValidateConfigOrFail)
}

func CreateRollbackCommand() *LifecycleCommand {
	return newLifecycleCommand("rollback", "Rolled back", (*service.FirewallService).Rollback, loadConfigForRecovery)
}

func newLifecycleCommand(name, done string, action lifecycleAction, load configLoader) *LifecycleCommand {
	return &LifecycleCommand{
		fs:     flag.NewFlagSet(name, flag.ExitOnError),
		done:   done,
		action: action,
		load:   load,
	}
}

// LifecycleCommand runs one firewall lifecycle operation against the host.
type LifecycleCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	done   string
	action lifecycleAction
	load   configLoader
}

func (g *LifecycleCommand) Name() string {
	return g.fs.Name()
}

func (g *LifecycleCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := g.load(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *LifecycleCommand) Run() error {
	fw := newFirewallService(g.ctx, g.cfg)

	if err := g.action(fw, context.Background()); err != nil {
		return fmt.Errorf("%s failed: %w", g.Name(), err)
	}

	log.Infof("%s (%v), snapshots in %s", g.done, fw.Families(), fw.SnapshotDir())
	return nil
}
