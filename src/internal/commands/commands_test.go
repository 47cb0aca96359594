package commands

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/domain"
	"github.com/maksimkurb/fwgen/src/internal/mocks"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/networking"
)

const testTOML = `[[global.policy]]
table = "filter"
chain = "INPUT"
policy = "DROP"

[[global.helper_chain]]
table = "filter"
chain = "LOG_DROP"
rules = ["-j LOG", "-j DROP"]

[[zone]]
name = "lan"
interfaces = ["eth0", "eth1"]

  [[zone.rules]]
  table = "filter"
  chain = "INPUT"
  rules = ["-p tcp --dport 22 -j ACCEPT"]

[[set]]
name = "blocked"
type = "hash:net"
entries = ["192.0.2.0/24"]
`

type fixture struct {
	ctx     *AppContext
	rules   *mocks.MockRuleEngine
	sets    *mocks.MockSetEngine
	store   *mocks.MockSnapshotStore
	journal *mocks.Journal
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "fwgen.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	f := &fixture{
		rules:   mocks.NewMockRuleEngine(),
		sets:    mocks.NewMockSetEngine(),
		store:   mocks.NewMockSnapshotStore(),
		journal: &mocks.Journal{},
	}
	f.rules.Journal = f.journal
	f.sets.Journal = f.journal
	f.store.Journal = f.journal
	f.ctx = &AppContext{
		ConfigPath: configFile,
		Deps:       domain.NewTestDependencies(f.rules, f.sets, f.store, &mocks.MockInterfaceLister{Names: []string{"lo", "eth0"}}),
	}
	return f
}

func run(t *testing.T, cmd Runner, ctx *AppContext, args ...string) error {
	t.Helper()
	if err := cmd.Init(args, ctx); err != nil {
		t.Fatalf("%s: Init failed: %v", cmd.Name(), err)
	}
	return cmd.Run()
}

func TestLifecycleCommands(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() *LifecycleCommand
		journal []string
	}{
		{"apply", CreateApplyCommand, []string{"restore ipset", "restore ipv4", "restore ipv6"}},
		{"save", CreateSaveCommand, []string{"save ipv4", "save ipv6", "snapshot iptables", "snapshot ip6tables", "snapshot ipsets"}},
		{"rollback", CreateRollbackCommand, []string{"restore ipv4", "restore ipv6", "restore ipset"}},
		{"commit", CreateCommitCommand, []string{
			"restore ipset", "restore ipv4", "restore ipv6",
			"save ipv4", "save ipv6", "snapshot iptables", "snapshot ip6tables", "snapshot ipsets",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testTOML)
			cmd := tt.cmd()
			if cmd.Name() != tt.name {
				t.Errorf("Name() = %s, want %s", cmd.Name(), tt.name)
			}

			if err := run(t, cmd, f.ctx); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if strings.Join(f.journal.Entries, ",") != strings.Join(tt.journal, ",") {
				t.Errorf("Journal = %v, want %v", f.journal.Entries, tt.journal)
			}
		})
	}
}

func TestLifecycleCommand_InvalidConfig(t *testing.T) {
	f := newFixture(t, "[[zone]]\nname = \"lan\"\n\n[[zone]]\nname = \"lan\"\n")

	for _, cmd := range []Runner{CreateApplyCommand(), CreateSaveCommand(), CreateCommitCommand()} {
		if err := cmd.Init(nil, f.ctx); err == nil {
			t.Errorf("%s: expected duplicate zones to fail Init", cmd.Name())
		}
	}
}

func TestRecoveryCommands_InvalidConfig(t *testing.T) {
	invalid := "[general]\nfamilies = [\"ipv4\"]\n\n[[zone]]\nname = \"lan\"\n\n[[zone]]\nname = \"lan\"\n"

	t.Run("rollback", func(t *testing.T) {
		f := newFixture(t, invalid)
		if err := run(t, CreateRollbackCommand(), f.ctx); err != nil {
			t.Fatalf("Expected rollback to run despite validation errors, got: %v", err)
		}
		if got := strings.Join(f.journal.Entries, ","); got != "restore ipv4,restore ipset" {
			t.Errorf("Unexpected journal %s", got)
		}
	})

	t.Run("reset", func(t *testing.T) {
		f := newFixture(t, invalid)
		if err := run(t, CreateResetCommand(), f.ctx); err != nil {
			t.Fatalf("Expected reset to run despite validation errors, got: %v", err)
		}
		if got := strings.Join(f.journal.Entries, ","); got != "restore ipv4,restore ipset" {
			t.Errorf("Unexpected journal %s", got)
		}
	})

	t.Run("unparseable file", func(t *testing.T) {
		f := newFixture(t, "[[zone]\nname = ")
		if err := CreateRollbackCommand().Init(nil, f.ctx); err == nil {
			t.Error("Expected a TOML syntax error to fail Init")
		}
		if err := CreateResetCommand().Init(nil, f.ctx); err == nil {
			t.Error("Expected a TOML syntax error to fail Init")
		}
	})
}

func TestResetCommand(t *testing.T) {
	f := newFixture(t, testTOML)

	if err := run(t, CreateResetCommand(), f.ctx, "-family", "ipv6"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got := strings.Join(f.journal.Entries, ","); got != "restore ipv6,restore ipset" {
		t.Errorf("Unexpected journal %s", got)
	}
	if got := string(f.sets.Restored[0]); got != "flush\ndestroy\n" {
		t.Errorf("Unexpected set reset document %q", got)
	}

	if err := CreateResetCommand().Init([]string{"-family", "ipx"}, f.ctx); err == nil {
		t.Error("Expected unknown family to fail Init")
	}
}

func TestShowCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		absent   []string
	}{
		{
			name:     "all families",
			args:     nil,
			contains: []string{"# iptables-restore\n*filter\n", "# ip6tables-restore\n*filter\n", ":lan_INPUT -", "-A INPUT -i eth1 -j lan_INPUT"},
		},
		{
			name:     "one family",
			args:     []string{"-family", "ipv6"},
			contains: []string{"# ip6tables-restore\n"},
			absent:   []string{"# iptables-restore\n"},
		},
		{
			name:     "reset",
			args:     []string{"-reset"},
			contains: []string{":INPUT ACCEPT"},
			absent:   []string{"LOG_DROP", "lan_INPUT"},
		},
		{
			name:     "sets",
			args:     []string{"-sets"},
			contains: []string{"-exist create blocked hash:net\nflush blocked\nadd blocked 192.0.2.0/24\n"},
			absent:   []string{"*filter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testTOML)
			var out bytes.Buffer
			cmd := CreateShowCommand()
			cmd.out = &out

			if err := run(t, cmd, f.ctx, tt.args...); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out.String(), unwanted) {
					t.Errorf("Expected output not to contain %q", unwanted)
				}
			}
			if len(f.journal.Entries) != 0 {
				t.Errorf("Expected nothing submitted, got %v", f.journal.Entries)
			}
		})
	}
}

func TestShowCommand_SetsAndFamily(t *testing.T) {
	f := newFixture(t, testTOML)

	if err := CreateShowCommand().Init([]string{"-sets", "-family", "ipv4"}, f.ctx); err == nil {
		t.Error("Expected -sets with -family to fail")
	}
}

func TestCheckCommand(t *testing.T) {
	f := newFixture(t, testTOML)

	if err := run(t, CreateCheckCommand(), f.ctx); err != nil {
		t.Errorf("Expected missing interfaces to only warn, got: %v", err)
	}

	f = newFixture(t, testTOML+"\n[[zone]]\nname = \"dmz\"\n\n  [[zone.rules]]\n  table = \"filter\"\n  chain = \"INPUT\"\n  rules = [\"-s ${NOPE} -j DROP\"]\n")
	if err := run(t, CreateCheckCommand(), f.ctx, "-skip-interfaces"); err == nil {
		t.Error("Expected undefined variable to fail the check")
	}
}

type fakeChains map[string][]string

func (f fakeChains) ListChains(table string) ([]string, error) {
	return f[table], nil
}

func (f fakeChains) Version() string {
	return "1.8.10"
}

// liveChains returns every built-in chain plus extra filter chains.
func liveChains(extra ...string) fakeChains {
	chains := make(fakeChains)
	for _, tc := range netfilter.Universe() {
		chains[tc.Table] = append(chains[tc.Table], tc.Chains...)
	}
	chains["filter"] = append(chains["filter"], extra...)
	return chains
}

func TestVerifyCommand(t *testing.T) {
	tests := []struct {
		name    string
		chains  fakeChains
		sets    []string
		wantErr bool
	}{
		{
			name:   "everything loaded",
			chains: liveChains("LOG_DROP", "lan_INPUT"),
			sets:   []string{"blocked", "foreign"},
		},
		{
			name:    "zone chain missing",
			chains:  liveChains("LOG_DROP"),
			sets:    []string{"blocked"},
			wantErr: true,
		},
		{
			name:    "set missing",
			chains:  liveChains("LOG_DROP", "lan_INPUT"),
			sets:    []string{"foreign"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testTOML)
			f.sets.Names = tt.sets

			var inspected []netfilter.Family
			cmd := CreateVerifyCommand()
			cmd.inspector = func(family netfilter.Family) (domain.ChainInspector, error) {
				inspected = append(inspected, family)
				return tt.chains, nil
			}

			err := run(t, cmd, f.ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(inspected) != 2 {
				t.Errorf("Expected both families inspected, got %v", inspected)
			}
		})
	}
}

func TestInterfacesCommand(t *testing.T) {
	f := newFixture(t, testTOML)
	var out bytes.Buffer

	cmd := CreateInterfacesCommand()
	cmd.out = &out
	cmd.list = func() ([]networking.Interface, error) {
		return []networking.Interface{
			{Link: &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "lo", Flags: net.FlagUp}}},
			{Link: &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0"}}},
		}, nil
	}

	if err := run(t, cmd, f.ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", out.String())
	}
	expected := [][]string{{"lo", "up", "-"}, {"eth0", "down", "lan"}, {"eth1", "n/a", "lan"}}
	for i, want := range expected {
		if got := strings.Fields(lines[i]); strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("Line %d = %v, want %v", i, got, want)
		}
	}
}

func TestServeCommand_Handler(t *testing.T) {
	f := newFixture(t, testTOML)

	cmd := CreateServeCommand()
	if err := cmd.Init(nil, f.ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if cmd.bindAddr != config.DefaultAPIListen {
		t.Errorf("Expected default bind address, got %s", cmd.bindAddr)
	}

	handler, err := cmd.newHandler()
	if err != nil {
		t.Fatalf("newHandler failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commit", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.store.Documents) != 3 {
		t.Errorf("Expected 3 snapshots, got %d", len(f.store.Documents))
	}
}
