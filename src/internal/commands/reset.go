package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

func CreateResetCommand() *ResetCommand {
	gc := &ResetCommand{
		fs: flag.NewFlagSet("reset", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Family, "family", "", "Reset only this family (ipv4 or ipv6). Sets are reset in any case")

	return gc
}

// ResetCommand tears down the firewall: every built-in chain ACCEPT, no custom chains, no sets.
type ResetCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	Family string

	families []netfilter.Family
}

func (g *ResetCommand) Name() string {
	return g.fs.Name()
}

func (g *ResetCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.Family != "" {
		family, err := netfilter.ParseFamily(g.Family)
		if err != nil {
			return err
		}
		g.families = []netfilter.Family{family}
	}

	if cfg, err := loadConfigForRecovery(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *ResetCommand) Run() error {
	fw := newFirewallService(g.ctx, g.cfg)

	log.Warnf("Resetting firewall: all chains will ACCEPT and all sets will be destroyed")
	if err := fw.Reset(context.Background(), g.families...); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	log.Infof("Reset completed successfully")
	return nil
}
