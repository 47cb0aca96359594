package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/domain"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/networking"
)

func CreateVerifyCommand() *VerifyCommand {
	gc := &VerifyCommand{
		fs: flag.NewFlagSet("verify", flag.ExitOnError),
		inspector: func(family netfilter.Family) (domain.ChainInspector, error) {
			inspector, err := networking.NewChainInspector(family)
			if err != nil {
				return nil, err
			}
			return inspector, nil
		},
	}
	return gc
}

// VerifyCommand checks that every chain and set the configuration declares is live on the host.
type VerifyCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	inspector func(family netfilter.Family) (domain.ChainInspector, error)
}

func (g *VerifyCommand) Name() string {
	return g.fs.Name()
}

func (g *VerifyCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *VerifyCommand) Run() error {
	fw := newFirewallService(g.ctx, g.cfg)
	c := fw.Compiler()

	rules, err := c.Build()
	if err != nil {
		return err
	}

	missing := 0
	for _, family := range fw.Families() {
		inspector, err := g.inspector(family)
		if err != nil {
			return err
		}
		log.Debugf("Inspecting %s chains (engine v%s)", family, inspector.Version())
		chains, err := networking.MissingChains(inspector, rules)
		if err != nil {
			return err
		}
		for _, chain := range chains {
			log.Errorf("%s chain %s is not loaded", family, chain)
		}
		missing += len(chains)
	}

	names, err := g.ctx.dependencies(g.cfg).SetEngine().ListNames(context.Background())
	if err != nil {
		return err
	}
	live := make(map[string]bool, len(names))
	for _, name := range names {
		live[name] = true
	}
	for _, name := range c.SetNames() {
		if !live[name] {
			log.Errorf("Set %s is not loaded", name)
			missing++
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d chain(s) or set(s) are missing, run apply", missing)
	}

	log.Infof("All chains and sets are loaded")
	return nil
}
