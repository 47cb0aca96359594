package service

import (
	"context"

	"github.com/maksimkurb/fwgen/src/internal/compiler"
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/domain"
	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

// State is a lifecycle state of the firewall.
type State string

const (
	StateIdle        State = "idle"
	StateApplying    State = "applying"
	StateApplied     State = "applied"
	StateSaving      State = "saving"
	StateCommitted   State = "committed"
	StateRollingBack State = "rolling_back"
	StateReverted    State = "reverted"
	StateResetting   State = "resetting"
	StateReset       State = "reset"
	StateFailed      State = "failed"
)

// setEngineRef names the set engine in submission errors.
const setEngineRef = "ipset"

// FirewallService applies, saves, commits, rolls back and resets the compiled firewall.
//
// Every operation compiles all documents it needs before the first submission, so a bad
// reference never reaches an engine. A single submission is atomic for its family.
// Families are submitted one after another and a failure does not undo families that
// already succeeded in the same operation.
//
// The service does no locking; callers serialize operations.
type FirewallService struct {
	compiler *compiler.Compiler
	families []netfilter.Family
	rules    domain.RuleEngine
	sets     domain.SetEngine
	store    domain.SnapshotStore

	state   State
	lastErr error
}

// NewFirewallService creates a firewall service for cfg.
//
// Parameters:
//   - rules: The packet-filter engine, one document per family
//   - sets: The address-set engine
//   - store: Snapshot storage scoped to the process' network namespace
func NewFirewallService(cfg *config.Config, rules domain.RuleEngine, sets domain.SetEngine, store domain.SnapshotStore) *FirewallService {
	return &FirewallService{
		compiler: compiler.New(cfg),
		families: cfg.ManagedFamilies(),
		rules:    rules,
		sets:     sets,
		store:    store,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *FirewallService) State() State {
	return s.state
}

// LastError returns the error that moved the service into StateFailed, if any.
func (s *FirewallService) LastError() error {
	return s.lastErr
}

// Families returns the managed protocol families in apply order.
func (s *FirewallService) Families() []netfilter.Family {
	return append([]netfilter.Family(nil), s.families...)
}

// Compiler returns the compiler bound to the configuration.
func (s *FirewallService) Compiler() *compiler.Compiler {
	return s.compiler
}

// Apply submits the set document and then the rule document of every managed family.
// Sets go first so that rules referencing them load.
func (s *FirewallService) Apply(ctx context.Context) error {
	s.transition(StateApplying)

	setDoc, err := s.compiler.SetDocument(false)
	if err != nil {
		return s.fail(err)
	}
	ruleDoc, err := s.compiler.RuleDocument()
	if err != nil {
		return s.fail(err)
	}

	if err := s.sets.Restore(ctx, setDoc); err != nil {
		return s.fail(submissionError(setEngineRef, err))
	}
	for _, family := range s.families {
		log.Infof("Applying %s rules", family)
		if err := s.rules.Restore(ctx, family, ruleDoc); err != nil {
			return s.fail(submissionError(family.String(), err))
		}
	}

	s.transition(StateApplied)
	return nil
}

// Save exports the active rules of every managed family and persists them together with
// the compiled set document. Sets are not exported: the host may hold sets this
// configuration does not own.
func (s *FirewallService) Save(ctx context.Context) error {
	s.transition(StateSaving)

	setDoc, err := s.compiler.SetDocument(false)
	if err != nil {
		return s.fail(err)
	}

	exported := make(map[netfilter.Family][]byte, len(s.families))
	for _, family := range s.families {
		doc, err := s.rules.Save(ctx, family)
		if err != nil {
			return s.fail(submissionError(family.String(), err))
		}
		exported[family] = doc
	}

	for _, family := range s.families {
		if err := s.store.Save(snapshot.RulesID(family), exported[family]); err != nil {
			return s.fail(err)
		}
	}
	if err := s.store.Save(snapshot.Sets, setDoc); err != nil {
		return s.fail(err)
	}

	log.Infof("Saved snapshots to %s", s.store.Dir())
	s.transition(StateCommitted)
	return nil
}

// Commit applies the configuration and, only if that succeeded, saves it.
func (s *FirewallService) Commit(ctx context.Context) error {
	if err := s.Apply(ctx); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Rollback restores the last saved snapshot of every managed family. A family without a
// readable snapshot is reset instead. Sets are handled after rules so that no rule still
// references a set when it is destroyed.
func (s *FirewallService) Rollback(ctx context.Context) error {
	s.transition(StateRollingBack)

	resetDoc, err := s.compiler.ResetDocument()
	if err != nil {
		return s.fail(err)
	}
	setResetDoc, err := s.compiler.SetDocument(true)
	if err != nil {
		return s.fail(err)
	}

	for _, family := range s.families {
		doc, ok := s.loadSnapshot(snapshot.RulesID(family))
		if !ok {
			log.Warnf("No usable %s snapshot, resetting %s rules", snapshot.RulesID(family), family)
			doc = resetDoc
		} else {
			log.Infof("Restoring %s rules from snapshot", family)
		}
		if err := s.rules.Restore(ctx, family, doc); err != nil {
			return s.fail(submissionError(family.String(), err))
		}
	}

	setDoc, ok := s.loadSnapshot(snapshot.Sets)
	if !ok {
		log.Warnf("No usable %s snapshot, destroying all sets", snapshot.Sets)
		setDoc = setResetDoc
	}
	if err := s.sets.Restore(ctx, setDoc); err != nil {
		return s.fail(submissionError(setEngineRef, err))
	}

	s.transition(StateReverted)
	return nil
}

// Reset sets every built-in chain of the given families (all managed families if none
// are given) to ACCEPT with no rules, then destroys all sets once.
func (s *FirewallService) Reset(ctx context.Context, families ...netfilter.Family) error {
	s.transition(StateResetting)

	if len(families) == 0 {
		families = s.families
	}

	resetDoc, err := s.compiler.ResetDocument()
	if err != nil {
		return s.fail(err)
	}
	setResetDoc, err := s.compiler.SetDocument(true)
	if err != nil {
		return s.fail(err)
	}

	for _, family := range families {
		log.Infof("Resetting %s rules", family)
		if err := s.rules.Restore(ctx, family, resetDoc); err != nil {
			return s.fail(submissionError(family.String(), err))
		}
	}
	if err := s.sets.Restore(ctx, setResetDoc); err != nil {
		return s.fail(submissionError(setEngineRef, err))
	}

	s.transition(StateReset)
	return nil
}

// Snapshots reports which snapshot documents exist.
func (s *FirewallService) Snapshots() map[snapshot.ID]bool {
	ids := make([]snapshot.ID, 0, len(s.families)+1)
	for _, family := range s.families {
		ids = append(ids, snapshot.RulesID(family))
	}
	ids = append(ids, snapshot.Sets)

	present := make(map[snapshot.ID]bool, len(ids))
	for _, id := range ids {
		present[id] = s.store.Exists(id)
	}
	return present
}

// SnapshotDir returns the namespace-scoped snapshot directory.
func (s *FirewallService) SnapshotDir() string {
	return s.store.Dir()
}

// loadSnapshot returns a saved document, treating a missing or unreadable one alike.
func (s *FirewallService) loadSnapshot(id snapshot.ID) ([]byte, bool) {
	if !s.store.Exists(id) {
		return nil, false
	}
	doc, err := s.store.Load(id)
	if err != nil {
		log.Warnf("Failed to load snapshot %s: %v", id, err)
		return nil, false
	}
	return doc, true
}

func (s *FirewallService) transition(state State) {
	log.Debugf("Firewall state: %s -> %s", s.state, state)
	s.state = state
	if state != StateFailed {
		s.lastErr = nil
	}
}

func (s *FirewallService) fail(err error) error {
	log.Errorf("%s failed: %v", s.state, err)
	s.transition(StateFailed)
	s.lastErr = err
	return err
}

// submissionError makes sure an engine error names the family (or set engine) it came from.
func submissionError(ref string, err error) error {
	if fwerrors.CodeOf(err) == fwerrors.ErrCodeEngineSubmission {
		return err
	}
	return fwerrors.NewEngineSubmissionError(ref, err)
}
