// Package networking talks to the host's packet filter, set engine and network stack.
//
// # Key Components
//
//   - RuleEngine: submits restore documents to iptables-restore/ip6tables-restore and
//     exports the active tables with iptables-save/ip6tables-save
//   - IPSetEngine: submits set documents to `ipset restore` and lists existing sets
//   - ChainInspector: reads live chains through go-iptables for post-apply verification
//   - NamespaceResolver: names the network namespace the process runs in, like
//     `ip netns identify`
//   - NetlinkInterfaceLister: lists host interfaces over netlink
//
// # Example Usage
//
//	engine := networking.NewRuleEngine()
//	if err := engine.Restore(ctx, netfilter.IPv4, document); err != nil {
//	    log.Errorf("%v", err)
//	}
//
// Every engine shells out through a replaceable command runner, so the package can be
// tested without root privileges.
package networking
