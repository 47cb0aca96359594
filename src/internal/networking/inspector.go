package networking

import (
	"fmt"

	"github.com/coreos/go-iptables/iptables"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

// ChainLister lists the live chains of a table.
type ChainLister interface {
	ListChains(table string) ([]string, error)
}

// iptablesAPI is the subset of *iptables.IPTables the inspector needs.
type iptablesAPI interface {
	ChainLister
	GetIptablesVersion() (int, int, int)
}

// ChainInspector reads the live chains of one family through go-iptables.
type ChainInspector struct {
	family netfilter.Family
	ipt    iptablesAPI
}

// NewChainInspector opens the iptables (or ip6tables) binary for family.
func NewChainInspector(family netfilter.Family) (*ChainInspector, error) {
	ipt, err := iptables.NewWithProtocol(family.Protocol())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s engine: %w", family, err)
	}
	return &ChainInspector{family: family, ipt: ipt}, nil
}

// ListChains returns every chain of table, built-in ones first.
func (i *ChainInspector) ListChains(table string) ([]string, error) {
	chains, err := i.ipt.ListChains(table)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s chains of table %s: %w", i.family, table, err)
	}
	return chains, nil
}

// Version returns the engine version as major.minor.patch.
func (i *ChainInspector) Version() string {
	v1, v2, v3 := i.ipt.GetIptablesVersion()
	return fmt.Sprintf("%d.%d.%d", v1, v2, v3)
}

// MissingChains compares the chains a compiled rule stream declares with the chains that
// are live, and returns "table/chain" for every declared chain that is absent.
func MissingChains(inspector ChainLister, declared []netfilter.Rule) ([]string, error) {
	live := make(map[string]map[string]bool)
	var missing []string
	for _, rule := range declared {
		chain, ok := declaredChain(rule.Line)
		if !ok {
			continue
		}
		if live[rule.Table] == nil {
			chains, err := inspector.ListChains(rule.Table)
			if err != nil {
				return nil, err
			}
			live[rule.Table] = make(map[string]bool, len(chains))
			for _, c := range chains {
				live[rule.Table][c] = true
			}
		}
		if !live[rule.Table][chain] {
			missing = append(missing, rule.Table+"/"+chain)
		}
	}
	return missing, nil
}

// declaredChain extracts the chain name from a ":CHAIN POLICY" declaration line.
func declaredChain(line string) (string, bool) {
	if len(line) < 2 || line[0] != ':' {
		return "", false
	}
	var chain, policy string
	if _, err := fmt.Sscanf(line[1:], "%s %s", &chain, &policy); err != nil {
		return "", false
	}
	return chain, true
}
