package commands

import (
	"flag"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/networking"
	"github.com/maksimkurb/fwgen/src/internal/service"
)

func CreateCheckCommand() *CheckCommand {
	gc := &CheckCommand{
		fs: flag.NewFlagSet("check", flag.ExitOnError),
	}

	gc.fs.BoolVar(&gc.SkipInterfaces, "skip-interfaces", false, "Do not look for zone interfaces on the host")

	return gc
}

// CheckCommand validates the configuration and compiles every document once.
type CheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	SkipInterfaces bool
}

func (g *CheckCommand) Name() string {
	return g.fs.Name()
}

func (g *CheckCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := config.LoadConfig(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *CheckCommand) Run() error {
	validator := service.NewValidationService(nil)
	if !g.SkipInterfaces {
		validator = service.NewValidationService(g.ctx.dependencies(g.cfg).InterfaceLister())
	}

	report, err := validator.CheckConfig(g.cfg)
	if err != nil {
		log.Errorf("Configuration check failed: %v", err)
		return err
	}

	networking.WarnMissingInterfaces(report.MissingInterfaces)
	log.Infof("Configuration is valid: %d zone(s), %d set(s), families %v",
		len(g.cfg.Zones), len(g.cfg.Sets), g.cfg.ManagedFamilies())
	return nil
}
