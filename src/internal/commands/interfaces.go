package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/networking"
)

func CreateInterfacesCommand() *InterfacesCommand {
	gc := &InterfacesCommand{
		fs:   flag.NewFlagSet("interfaces", flag.ExitOnError),
		out:  os.Stdout,
		list: networking.GetInterfaceList,
	}
	return gc
}

// InterfacesCommand lists host interfaces together with the zones they belong to.
type InterfacesCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	list func() ([]networking.Interface, error)
}

func (g *InterfacesCommand) Name() string {
	return g.fs.Name()
}

func (g *InterfacesCommand) Init(args []string, ctx *AppContext) error {
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

func (g *InterfacesCommand) Run() error {
	interfaces, err := g.list()
	if err != nil {
		return fmt.Errorf("failed to get interfaces: %v", err)
	}

	zones := make(map[string][]string)
	for _, zone := range g.cfg.Zones {
		for _, iface := range zone.Interfaces {
			zones[iface] = append(zones[iface], zone.Name)
		}
	}

	present := make([]string, 0, len(interfaces))
	for i := range interfaces {
		iface := &interfaces[i]
		present = append(present, iface.Name())

		state := "down"
		if iface.IsUp() {
			state = "up"
		}
		member := "-"
		if z := zones[iface.Name()]; len(z) > 0 {
			member = strings.Join(z, ",")
		}
		fmt.Fprintf(g.out, "%-16s %-5s %s\n", iface.Name(), state, member)
	}

	for _, m := range networking.FindMissingInterfaces(g.cfg, present) {
		fmt.Fprintf(g.out, "%-16s %-5s %s\n", m.Interface, "n/a", m.Zone)
	}
	return nil
}
