package networking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

func init() {
	log.DisableLogs()
}

func TestRuleEngine_Restore(t *testing.T) {
	tests := []struct {
		name    string
		family  netfilter.Family
		command string
	}{
		{"ipv4", netfilter.IPv4, "iptables-restore"},
		{"ipv6", netfilter.IPv6, "ip6tables-restore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			engine := &RuleEngine{run: runner.run}

			doc := []byte("*filter\n:INPUT ACCEPT\nCOMMIT\n")
			if err := engine.Restore(context.Background(), tt.family, doc); err != nil {
				t.Fatalf("Restore() error: %v", err)
			}

			if len(runner.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(runner.calls))
			}
			if runner.calls[0].command != tt.command {
				t.Errorf("command = %q, want %q", runner.calls[0].command, tt.command)
			}
			if runner.calls[0].stdin != string(doc) {
				t.Errorf("stdin = %q, want %q", runner.calls[0].stdin, doc)
			}
		})
	}
}

func TestRuleEngine_RestoreFailureNamesFamily(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{"ip6tables-restore": errors.New("line 3 failed")}}
	engine := &RuleEngine{run: runner.run}

	err := engine.Restore(context.Background(), netfilter.IPv6, []byte("x\n"))
	if !errors.Is(err, fwerrors.ErrEngineSubmission) {
		t.Fatalf("expected engine submission error, got %v", err)
	}
	var fe *fwerrors.Error
	if !errors.As(err, &fe) || fe.Ref != "ipv6" {
		t.Errorf("expected error to name ipv6, got %v", err)
	}
}

func TestRuleEngine_Save(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"iptables-save": "*filter\nCOMMIT\n"}}
	engine := &RuleEngine{run: runner.run}

	out, err := engine.Save(context.Background(), netfilter.IPv4)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if string(out) != "*filter\nCOMMIT\n" {
		t.Errorf("Save() = %q", out)
	}
	if runner.calls[0].stdin != "" {
		t.Errorf("save must not receive stdin, got %q", runner.calls[0].stdin)
	}
}

func TestIPSetEngine_Restore(t *testing.T) {
	runner := &fakeRunner{}
	engine := &IPSetEngine{run: runner.run}

	doc := []byte("flush\ndestroy\n")
	if err := engine.Restore(context.Background(), doc); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if runner.calls[0].command != "ipset restore -exist" {
		t.Errorf("command = %q", runner.calls[0].command)
	}
	if runner.calls[0].stdin != string(doc) {
		t.Errorf("stdin = %q", runner.calls[0].stdin)
	}

	runner.errs = map[string]error{"ipset restore -exist": errors.New("set in use")}
	if err := engine.Restore(context.Background(), doc); !errors.Is(err, fwerrors.ErrEngineSubmission) {
		t.Errorf("expected engine submission error, got %v", err)
	}
}

func TestIPSetEngine_ListNames(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"ipset list -n": "blocked\n\nallowed\n"}}
	engine := &IPSetEngine{run: runner.run}

	names, err := engine.ListNames(context.Background())
	if err != nil {
		t.Fatalf("ListNames() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"blocked", "allowed"}) {
		t.Errorf("ListNames() = %v", names)
	}
}

func TestChainInspector(t *testing.T) {
	ipt := &fakeIptables{chains: map[string][]string{
		"filter": {"INPUT", "FORWARD", "OUTPUT", "lan_INPUT"},
		"nat":    {"PREROUTING", "INPUT", "OUTPUT", "POSTROUTING"},
	}}
	inspector := &ChainInspector{family: netfilter.IPv4, ipt: ipt}

	if v := inspector.Version(); v != "1.8.10" {
		t.Errorf("Version() = %q", v)
	}

	declared := []netfilter.Rule{
		{Table: "filter", Line: ":INPUT DROP"},
		{Table: "filter", Line: ":lan_INPUT -"},
		{Table: "filter", Line: ":LOG_DROP -"},
		{Table: "filter", Line: "-A INPUT -j LOG_DROP"},
		{Table: "nat", Line: ":wan_POSTROUTING -"},
	}
	missing, err := MissingChains(inspector, declared)
	if err != nil {
		t.Fatalf("MissingChains() error: %v", err)
	}
	if want := []string{"filter/LOG_DROP", "nat/wan_POSTROUTING"}; !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingChains() = %v, want %v", missing, want)
	}
	if want := []string{"filter", "nat"}; !reflect.DeepEqual(ipt.listed, want) {
		t.Errorf("each table should be listed once, got %v", ipt.listed)
	}
}

func TestChainInspector_ListError(t *testing.T) {
	inspector := &ChainInspector{family: netfilter.IPv6, ipt: &fakeIptables{err: errors.New("permission denied")}}

	if _, err := MissingChains(inspector, []netfilter.Rule{{Table: "raw", Line: ":OUTPUT ACCEPT"}}); err == nil {
		t.Fatal("expected list error to propagate")
	}
}
