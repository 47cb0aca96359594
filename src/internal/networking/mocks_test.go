package networking

import (
	"context"
	"net"
	"strings"

	"github.com/vishvananda/netlink"
)

// Mock types for testing

type mockNetlinkLink struct {
	name  string
	up    bool
	index int
}

func (m *mockNetlinkLink) Attrs() *netlink.LinkAttrs {
	flags := net.Flags(0)
	if m.up {
		flags |= net.FlagUp
	}
	return &netlink.LinkAttrs{
		Name:  m.name,
		Index: m.index,
		Flags: flags,
	}
}

func (m *mockNetlinkLink) Type() string { return "mock" }

// recordedCall is one invocation seen by fakeRunner.
type recordedCall struct {
	stdin   string
	command string
}

// fakeRunner records commands and answers with canned output or errors keyed by the
// full command line.
type fakeRunner struct {
	calls   []recordedCall
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeRunner) run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	command := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, recordedCall{stdin: string(stdin), command: command})
	if err := f.errs[command]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[command]), nil
}

type fakeIptables struct {
	chains map[string][]string
	err    error
	listed []string
}

func (f *fakeIptables) ListChains(table string) ([]string, error) {
	f.listed = append(f.listed, table)
	if f.err != nil {
		return nil, f.err
	}
	return f.chains[table], nil
}

func (f *fakeIptables) GetIptablesVersion() (int, int, int) {
	return 1, 8, 10
}
