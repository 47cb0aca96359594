package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/fwgen/src/internal/compiler"
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

func CreateShowCommand() *ShowCommand {
	gc := &ShowCommand{
		fs:  flag.NewFlagSet("show", flag.ExitOnError),
		out: os.Stdout,
	}

	gc.fs.StringVar(&gc.Family, "family", "", "Print only the document of this family (ipv4 or ipv6)")
	gc.fs.BoolVar(&gc.Sets, "sets", false, "Print the ipset-restore document instead of the rules")
	gc.fs.BoolVar(&gc.Reset, "reset", false, "Print the reset variant of the document")

	return gc
}

// ShowCommand prints compiled documents without submitting them.
//
// Each rule document is preceded by a comment naming the command that consumes it,
// so the output can be piped into iptables-restore --test as is.
type ShowCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	Family string
	Sets   bool
	Reset  bool

	families []netfilter.Family
}

func (g *ShowCommand) Name() string {
	return g.fs.Name()
}

func (g *ShowCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.Sets && g.Family != "" {
		return fmt.Errorf("-sets and -family can not be used together")
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	g.families = g.cfg.ManagedFamilies()
	if g.Family != "" {
		family, err := netfilter.ParseFamily(g.Family)
		if err != nil {
			return err
		}
		g.families = []netfilter.Family{family}
	}

	return nil
}

func (g *ShowCommand) Run() error {
	c := compiler.New(g.cfg)

	if g.Sets {
		doc, err := c.SetDocument(g.Reset)
		if err != nil {
			return err
		}
		_, err = g.out.Write(doc)
		return err
	}

	build := c.RuleDocument
	if g.Reset {
		build = c.ResetDocument
	}
	doc, err := build()
	if err != nil {
		return err
	}

	for _, family := range g.families {
		if _, err := fmt.Fprintf(g.out, "# %s\n", family.RestoreCommand()); err != nil {
			return err
		}
		if _, err := g.out.Write(doc); err != nil {
			return err
		}
	}
	return nil
}
