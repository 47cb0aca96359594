package networking

import (
	"bytes"
	"context"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

// RuleEngine drives iptables-restore and iptables-save (and their ip6tables twins).
// iptables-restore commits every table of a document in one step, which is what makes
// a single submission all-or-nothing.
type RuleEngine struct {
	run commandRunner
}

// NewRuleEngine creates a rule engine that runs the host binaries.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{run: execCommand}
}

// Restore submits document to the restore command of family.
func (e *RuleEngine) Restore(ctx context.Context, family netfilter.Family, document []byte) error {
	log.Debugf("Submitting %d lines to %s", bytes.Count(document, []byte("\n")), family.RestoreCommand())

	if _, err := e.run(ctx, document, family.RestoreCommand()); err != nil {
		return fwerrors.NewEngineSubmissionError(family.String(), err)
	}
	return nil
}

// Save exports the active tables of family.
func (e *RuleEngine) Save(ctx context.Context, family netfilter.Family) ([]byte, error) {
	out, err := e.run(ctx, nil, family.SaveCommand())
	if err != nil {
		return nil, fwerrors.NewEngineSubmissionError(family.String(), err)
	}
	return out, nil
}
