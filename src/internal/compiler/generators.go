package compiler

import (
	"fmt"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

// Generators produce rules with placeholders left in place; Assemble resolves them.

// PolicyRules declares every built-in chain of the universe. In reset mode every
// policy is ACCEPT regardless of configuration.
func PolicyRules(cfg *config.Config, reset bool) []netfilter.Rule {
	var rules []netfilter.Rule
	for _, tc := range netfilter.Universe() {
		for _, chain := range tc.Chains {
			policy := netfilter.PolicyAccept
			if !reset {
				if p := cfg.PolicyFor(tc.Table, chain); p != "" {
					policy = p
				}
			}
			rules = append(rules, declareChain(tc.Table, chain, policy))
		}
	}
	return rules
}

// HelperChainRules declares all helper chains first, then appends their rules, so a
// helper may jump to any other helper of the same table.
func HelperChainRules(cfg *config.Config) []netfilter.Rule {
	if cfg.Global == nil {
		return nil
	}

	var rules []netfilter.Rule
	for _, h := range cfg.Global.HelperChains {
		rules = append(rules, declareChain(h.Table, h.Chain, "-"))
	}
	for _, h := range cfg.Global.HelperChains {
		rules = append(rules, appendRules(h.Table, h.Chain, h.Rules)...)
	}
	return rules
}

// GlobalRules emits the hooked rules of each stage in stage order.
func GlobalRules(cfg *config.Config) []netfilter.Rule {
	var rules []netfilter.Rule
	for _, stage := range cfg.Global.Stages() {
		for _, cr := range stage.Rules {
			rules = append(rules, appendRules(cr.Table, cr.Chain, cr.Rules)...)
		}
	}
	return rules
}

// ZoneDispatchRules declares one <zone>_<chain> chain per zone rules section and jumps
// into it from the built-in chain on the zone's interfaces. The chain must be a built-in
// hook chain of the section's table.
func ZoneDispatchRules(cfg *config.Config) ([]netfilter.Rule, error) {
	var rules []netfilter.Rule
	for _, zone := range cfg.Zones {
		for _, cr := range zone.Rules {
			direction, ok := netfilter.DispatchDirection(cr.Chain)
			if !ok || !netfilter.IsDefaultChain(cr.Table, cr.Chain) {
				return nil, errors.NewInvalidChainError(cr.Table + "/" + cr.Chain)
			}
			dispatch := DispatchChain(zone.Name, cr.Chain)
			rules = append(rules,
				declareChain(cr.Table, dispatch, "-"),
				netfilter.Rule{
					Table: cr.Table,
					Line:  fmt.Sprintf("-A %s %s %s%s%s -j %s", cr.Chain, direction, zoneStartTag, zone.Name, endTag, dispatch),
				},
			)
		}
	}
	return rules, nil
}

// ZoneRules appends each zone's rule fragments to its dispatch chains.
func ZoneRules(cfg *config.Config) []netfilter.Rule {
	var rules []netfilter.Rule
	for _, zone := range cfg.Zones {
		for _, cr := range zone.Rules {
			rules = append(rules, appendRules(cr.Table, DispatchChain(zone.Name, cr.Chain), cr.Rules)...)
		}
	}
	return rules
}

// DispatchChain names the chain that holds a zone's rules for a built-in chain.
func DispatchChain(zone, chain string) string {
	return zone + "_" + chain
}

func declareChain(table, chain, policy string) netfilter.Rule {
	return netfilter.Rule{Table: table, Line: fmt.Sprintf(":%s %s", chain, policy)}
}

func appendRules(table, chain string, fragments []string) []netfilter.Rule {
	rules := make([]netfilter.Rule, 0, len(fragments))
	for _, fragment := range fragments {
		rules = append(rules, netfilter.Rule{Table: table, Line: fmt.Sprintf("-A %s %s", chain, fragment)})
	}
	return rules
}
