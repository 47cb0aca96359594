// Package netfilter holds the fixed table/chain universe the compiler targets,
// the protocol families it manages and the (table, line) rule pair.
package netfilter

import (
	"fmt"

	"github.com/coreos/go-iptables/iptables"
)

const (
	TableFilter   = "filter"
	TableNat      = "nat"
	TableMangle   = "mangle"
	TableRaw      = "raw"
	TableSecurity = "security"
)

const (
	ChainPrerouting  = "PREROUTING"
	ChainInput       = "INPUT"
	ChainForward     = "FORWARD"
	ChainOutput      = "OUTPUT"
	ChainPostrouting = "POSTROUTING"
)

const (
	PolicyAccept = "ACCEPT"
	PolicyDrop   = "DROP"
)

// TableChains is one entry of the universe: a table and its built-in chains in order.
type TableChains struct {
	Table  string
	Chains []string
}

// universe is the order in which tables are emitted into every document.
var universe = []TableChains{
	{TableFilter, []string{ChainInput, ChainForward, ChainOutput}},
	{TableNat, []string{ChainPrerouting, ChainInput, ChainOutput, ChainPostrouting}},
	{TableMangle, []string{ChainPrerouting, ChainInput, ChainForward, ChainOutput, ChainPostrouting}},
	{TableRaw, []string{ChainPrerouting, ChainOutput}},
	{TableSecurity, []string{ChainInput, ChainForward, ChainOutput}},
}

// Universe returns a copy of the table/chain universe in emission order.
func Universe() []TableChains {
	out := make([]TableChains, len(universe))
	for i, tc := range universe {
		out[i] = TableChains{Table: tc.Table, Chains: append([]string(nil), tc.Chains...)}
	}
	return out
}

// Tables returns table names in emission order.
func Tables() []string {
	tables := make([]string, len(universe))
	for i, tc := range universe {
		tables[i] = tc.Table
	}
	return tables
}

// IsTable reports whether table belongs to the universe.
func IsTable(table string) bool {
	for _, tc := range universe {
		if tc.Table == table {
			return true
		}
	}
	return false
}

// IsDefaultChain reports whether chain is a built-in chain of table.
func IsDefaultChain(table, chain string) bool {
	for _, tc := range universe {
		if tc.Table != table {
			continue
		}
		for _, c := range tc.Chains {
			if c == chain {
				return true
			}
		}
	}
	return false
}

// Direction is the interface match used when jumping into a zone dispatch chain.
type Direction string

const (
	Ingress Direction = "-i"
	Egress  Direction = "-o"
)

// DispatchDirection returns the interface match for a zone dispatch jump from chain.
// Only the five built-in hook chains can dispatch.
func DispatchDirection(chain string) (Direction, bool) {
	switch chain {
	case ChainPrerouting, ChainInput, ChainForward:
		return Ingress, true
	case ChainOutput, ChainPostrouting:
		return Egress, true
	default:
		return "", false
	}
}

// Rule is a single line destined for a table: a chain declaration or an insertion.
type Rule struct {
	Table string
	Line  string
}

func (r Rule) String() string {
	return fmt.Sprintf("%s: %s", r.Table, r.Line)
}

// Hook stages for global rules, in emission order.
const (
	StagePreDefault = "pre_default"
	StageDefault    = "default"
	StagePreZone    = "pre_zone"
)

// Family is a packet-filter protocol family.
type Family uint8

const (
	IPv4 Family = 4
	IPv6 Family = 6
)

// Families lists every supported family in apply order.
var Families = []Family{IPv4, IPv6}

// ParseFamily parses "ipv4"/"ipv6" (also "4"/"6", "ip"/"ip6").
func ParseFamily(s string) (Family, error) {
	switch s {
	case "ipv4", "4", "ip":
		return IPv4, nil
	case "ipv6", "6", "ip6":
		return IPv6, nil
	}
	return 0, fmt.Errorf("unknown protocol family %q", s)
}

func (f Family) String() string {
	if f == IPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// Protocol maps the family onto go-iptables' protocol selector.
func (f Family) Protocol() iptables.Protocol {
	if f == IPv6 {
		return iptables.ProtocolIPv6
	}
	return iptables.ProtocolIPv4
}

// RestoreCommand is the engine binary that bulk-replaces tables from a document.
func (f Family) RestoreCommand() string {
	if f == IPv6 {
		return "ip6tables-restore"
	}
	return "iptables-restore"
}

// SaveCommand is the engine binary that exports the active tables as a document.
func (f Family) SaveCommand() string {
	if f == IPv6 {
		return "ip6tables-save"
	}
	return "iptables-save"
}
