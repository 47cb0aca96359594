// Package compiler turns a firewall configuration into iptables-restore and ipset
// restore documents.
//
// A full build is a fixed sequence of generators: built-in chain policies, helper
// chains, hooked global rules (pre_default, default, pre_zone), zone dispatch chains
// and zone rules. The assembler then groups the stream by table in the order
// filter, nat, mangle, raw, security and resolves ${variable} and %{zone}
// placeholders in every line. Zone placeholders expand into one line per interface.
//
// Compilation finishes before anything is submitted, so an undefined reference never
// leaves an engine with half a rule set.
package compiler
