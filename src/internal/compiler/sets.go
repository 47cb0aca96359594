package compiler

import (
	"fmt"
	"strings"
)

// AssembleSets returns ipset restore commands for the configured sets: an idempotent
// create, a flush, then one add per entry with variables resolved. In reset mode it
// returns a flush and a destroy of every set on the host, configured or not.
func (c *Compiler) AssembleSets(reset bool) ([]string, error) {
	if reset {
		return []string{"flush", "destroy"}, nil
	}

	var lines []string
	for _, set := range c.cfg.Sets {
		create := []string{"-exist", "create", set.Name, set.Type}
		if set.Options != "" {
			create = append(create, set.Options)
		}
		lines = append(lines, strings.Join(create, " "), "flush "+set.Name)

		for _, entry := range set.Entries {
			line, err := c.subst.ResolveVariables(fmt.Sprintf("add %s %s", set.Name, entry))
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// SetDocument compiles the set restore document.
func (c *Compiler) SetDocument(reset bool) ([]byte, error) {
	lines, err := c.AssembleSets(reset)
	if err != nil {
		return nil, err
	}
	return Document(lines), nil
}

// SetNames lists the configured set names in declaration order.
func (c *Compiler) SetNames() []string {
	names := make([]string, 0, len(c.cfg.Sets))
	for _, set := range c.cfg.Sets {
		names = append(names, set.Name)
	}
	return names
}
