package networking

import (
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/log"
)

// MissingInterface is a zone interface that does not exist on the host.
type MissingInterface struct {
	Zone      string `json:"zone"`
	Interface string `json:"interface"`
}

// FindMissingInterfaces returns every zone interface that is not in present.
// Interfaces may appear after the rules are applied, so callers only warn.
func FindMissingInterfaces(c *config.Config, present []string) []MissingInterface {
	known := make(map[string]bool, len(present))
	for _, name := range present {
		known[name] = true
	}

	var missing []MissingInterface
	for _, zone := range c.Zones {
		for _, iface := range zone.Interfaces {
			if !known[iface] {
				missing = append(missing, MissingInterface{Zone: zone.Name, Interface: iface})
			}
		}
	}
	return missing
}

// WarnMissingInterfaces logs every missing zone interface and reports whether any was found.
func WarnMissingInterfaces(missing []MissingInterface) bool {
	for _, m := range missing {
		log.Warnf("Interface '%s' of zone '%s' does not exist", m.Interface, m.Zone)
	}
	if len(missing) > 0 {
		PrintMissingInterfacesHelp()
	}
	return len(missing) > 0
}

func PrintMissingInterfacesHelp() {
	log.Warnf("(tip) Rules for missing interfaces are still applied and start matching once the interface appears")
}
