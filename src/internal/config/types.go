package config

import (
	"path/filepath"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/utils"
)

const (
	DefaultSnapshotDir = "/etc"
	DefaultAPIListen   = "127.0.0.1:12121"
)

// Config is the parsed firewall policy. Every section whose order matters is a
// TOML array of tables so declaration order survives parsing.
type Config struct {
	// General holds settings that do not produce rules.
	General *GeneralConfig `toml:"general" json:"general"`
	// Global holds default policies, helper chains and hooked global rules.
	Global *GlobalConfig `toml:"global" json:"global"`
	// Zones are named groups of interfaces with their own rules.
	Zones []*ZoneConfig `toml:"zone,omitempty" json:"zone,omitempty" validate:"dive"`
	// Variables are substituted into rules as ${NAME}.
	Variables map[string]string `toml:"variables,omitempty" json:"variables,omitempty"`
	// Sets are address sets created before any rule is applied.
	Sets []*SetConfig `toml:"set,omitempty" json:"set,omitempty" validate:"dive"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// SnapshotDir is the base directory for saved rule-set snapshots (default: /etc). Snapshots of a named network namespace go to <snapshot_dir>/netns/<name>.
	SnapshotDir string `toml:"snapshot_dir" json:"snapshot_dir"`
	// Families lists the protocol families that are managed (default: ["ipv4", "ipv6"]).
	Families []string `toml:"families" json:"families" validate:"dive,family"`
	// APIListen is the listen address for `fwgen serve` (default: 127.0.0.1:12121).
	APIListen string `toml:"api_listen" json:"api_listen" validate:"omitempty,hostname_port"`
}

type GlobalConfig struct {
	// Policy overrides the default ACCEPT policy of built-in chains.
	Policy []*PolicyConfig `toml:"policy,omitempty" json:"policy,omitempty" validate:"dive"`
	// HelperChains are user chains declared before any hooked or zone rule.
	HelperChains []*ChainRules `toml:"helper_chain,omitempty" json:"helper_chain,omitempty" validate:"dive"`
	// Rules are global rules for each hook stage.
	Rules *HookedRules `toml:"rules,omitempty" json:"rules,omitempty"`
}

type PolicyConfig struct {
	Table  string `toml:"table" json:"table" validate:"required,table"`
	Chain  string `toml:"chain" json:"chain" validate:"required"`
	Policy string `toml:"policy" json:"policy" validate:"required,policy"`
}

// HookedRules are global rules emitted in stage order: pre_default, default, pre_zone.
type HookedRules struct {
	PreDefault []*ChainRules `toml:"pre_default,omitempty" json:"pre_default,omitempty" validate:"dive"`
	Default    []*ChainRules `toml:"default,omitempty" json:"default,omitempty" validate:"dive"`
	PreZone    []*ChainRules `toml:"pre_zone,omitempty" json:"pre_zone,omitempty" validate:"dive"`
}

// ChainRules is an ordered list of rule fragments appended to one chain of one table.
type ChainRules struct {
	Table string   `toml:"table" json:"table" validate:"required,table"`
	Chain string   `toml:"chain" json:"chain" validate:"required,chain_name"`
	Rules []string `toml:"rules" json:"rules"`
}

type ZoneConfig struct {
	// Name is the zone name; dispatch chains are named <name>_<chain>.
	Name string `toml:"name" json:"name" validate:"required,object_name"`
	// Interfaces are expanded wherever %{name} appears in a rule.
	Interfaces []string `toml:"interfaces" json:"interfaces"`
	// Rules are appended to the zone's dispatch chains.
	Rules []*ChainRules `toml:"rules,omitempty" json:"rules,omitempty" validate:"dive"`
}

type SetConfig struct {
	Name string `toml:"name" json:"name" validate:"required,object_name"`
	// Type is the set type, e.g. hash:net or hash:ip,port.
	Type string `toml:"type" json:"type" validate:"required"`
	// Options are appended to the create command verbatim, e.g. "family inet6 timeout 300".
	Options string   `toml:"options,omitempty" json:"options,omitempty"`
	Entries []string `toml:"entries" json:"entries"`
}

// Stage pairs a hook stage name with its rules.
type Stage struct {
	Name  string
	Rules []*ChainRules
}

// Stages returns the hook stages in emission order. A missing stage has no rules.
func (g *GlobalConfig) Stages() []Stage {
	var h HookedRules
	if g != nil && g.Rules != nil {
		h = *g.Rules
	}
	return []Stage{
		{netfilter.StagePreDefault, h.PreDefault},
		{netfilter.StageDefault, h.Default},
		{netfilter.StagePreZone, h.PreZone},
	}
}

// PolicyFor returns the configured policy for a built-in chain, or "" if not overridden.
func (c *Config) PolicyFor(table, chain string) string {
	if c.Global == nil {
		return ""
	}
	for _, p := range c.Global.Policy {
		if p.Table == table && p.Chain == chain {
			return p.Policy
		}
	}
	return ""
}

// Zone returns the zone with the given name.
func (c *Config) Zone(name string) (*ZoneConfig, bool) {
	for _, z := range c.Zones {
		if z.Name == name {
			return z, true
		}
	}
	return nil, false
}

// ManagedFamilies returns the protocol families to apply, in apply order.
func (c *Config) ManagedFamilies() []netfilter.Family {
	if c.General == nil || len(c.General.Families) == 0 {
		return append([]netfilter.Family(nil), netfilter.Families...)
	}

	var families []netfilter.Family
	for _, f := range netfilter.Families {
		for _, name := range c.General.Families {
			if parsed, err := netfilter.ParseFamily(name); err == nil && parsed == f {
				families = append(families, f)
				break
			}
		}
	}
	return families
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsSnapshotDir returns the snapshot base directory, resolved against the config directory.
func (c *Config) GetAbsSnapshotDir() string {
	dir := DefaultSnapshotDir
	if c.General != nil && c.General.SnapshotDir != "" {
		dir = c.General.SnapshotDir
	}
	if c._absConfigFilePath == "" {
		return dir
	}
	return utils.GetAbsolutePath(dir, c.GetConfigDir())
}

// GetAPIListen returns the API listen address.
func (c *Config) GetAPIListen() string {
	if c.General != nil && c.General.APIListen != "" {
		return c.General.APIListen
	}
	return DefaultAPIListen
}
