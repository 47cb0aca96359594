package compiler

import (
	"strings"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

// Compiler turns a validated configuration into restore documents.
// It is safe for concurrent use because it never mutates its inputs.
type Compiler struct {
	cfg   *config.Config
	subst *Substituter
}

// New creates a compiler for cfg.
func New(cfg *config.Config) *Compiler {
	return &Compiler{
		cfg:   cfg,
		subst: NewSubstituter(cfg),
	}
}

// Substituter returns the placeholder resolver bound to the configuration.
func (c *Compiler) Substituter() *Substituter {
	return c.subst
}

// Build composes the full rule stream: policies, helper chains, hooked global rules,
// zone dispatch and zone rules.
func (c *Compiler) Build() ([]netfilter.Rule, error) {
	dispatch, err := ZoneDispatchRules(c.cfg)
	if err != nil {
		return nil, err
	}

	var rules []netfilter.Rule
	rules = append(rules, PolicyRules(c.cfg, false)...)
	rules = append(rules, HelperChainRules(c.cfg)...)
	rules = append(rules, GlobalRules(c.cfg)...)
	rules = append(rules, dispatch...)
	rules = append(rules, ZoneRules(c.cfg)...)
	return rules, nil
}

// BuildReset returns the policy-only stream with every policy set to ACCEPT.
func (c *Compiler) BuildReset() []netfilter.Rule {
	return PolicyRules(c.cfg, true)
}

// Assemble groups rules into table blocks in universe order, resolving placeholders in
// every line. Rules keep their stream order inside a block and empty tables still get
// a header and a COMMIT. Nothing is returned unless every line resolved.
func (c *Compiler) Assemble(rules []netfilter.Rule) ([]string, error) {
	var lines []string
	for _, table := range netfilter.Tables() {
		lines = append(lines, "*"+table)
		for _, rule := range rules {
			if rule.Table != table {
				continue
			}
			for line, err := range c.subst.Expand(rule.Line) {
				if err != nil {
					return nil, err
				}
				lines = append(lines, line)
			}
		}
		lines = append(lines, "COMMIT")
	}
	return lines, nil
}

// RuleDocument compiles the restore document applied to every managed family.
func (c *Compiler) RuleDocument() ([]byte, error) {
	rules, err := c.Build()
	if err != nil {
		return nil, err
	}
	lines, err := c.Assemble(rules)
	if err != nil {
		return nil, err
	}
	return Document(lines), nil
}

// ResetDocument compiles the teardown document: built-in chains only, all ACCEPT.
func (c *Compiler) ResetDocument() ([]byte, error) {
	lines, err := c.Assemble(c.BuildReset())
	if err != nil {
		return nil, err
	}
	return Document(lines), nil
}

// Document joins lines into the newline-terminated form restore commands read.
func Document(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
