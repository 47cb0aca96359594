package mocks

import (
	"context"
	"fmt"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

// Journal records engine submissions from several mocks in one ordered list, so tests
// can assert ordering across engines.
type Journal struct {
	Entries []string
}

func (j *Journal) record(format string, args ...any) {
	if j != nil {
		j.Entries = append(j.Entries, fmt.Sprintf(format, args...))
	}
}

// RestoreCall is one document submitted to a mock engine.
type RestoreCall struct {
	Family   netfilter.Family
	Document []byte
}

// MockRuleEngine is a mock implementation of the RuleEngine interface.
//
// By default it behaves like a real engine with a single active document per family:
// Restore replaces it and Save returns it.
type MockRuleEngine struct {
	// RestoreFunc is called by Restore if not nil. A non-nil error leaves Active untouched.
	RestoreFunc func(ctx context.Context, family netfilter.Family, document []byte) error

	// SaveFunc is called by Save if not nil
	SaveFunc func(ctx context.Context, family netfilter.Family) ([]byte, error)

	// Active is the current document per family
	Active map[netfilter.Family][]byte

	// Journal receives "restore <family>" and "save <family>" entries if not nil
	Journal *Journal

	// Track calls for verification in tests
	Restored     []RestoreCall
	RestoreCalls int
	SaveCalls    int
}

// NewMockRuleEngine creates a new mock rule engine with default behavior.
func NewMockRuleEngine() *MockRuleEngine {
	return &MockRuleEngine{Active: make(map[netfilter.Family][]byte)}
}

// Restore replaces the active document of family.
func (m *MockRuleEngine) Restore(ctx context.Context, family netfilter.Family, document []byte) error {
	m.RestoreCalls++
	m.Journal.record("restore %s", family)
	doc := append([]byte(nil), document...)
	m.Restored = append(m.Restored, RestoreCall{Family: family, Document: doc})

	if m.RestoreFunc != nil {
		if err := m.RestoreFunc(ctx, family, document); err != nil {
			return err
		}
	}
	if m.Active == nil {
		m.Active = make(map[netfilter.Family][]byte)
	}
	m.Active[family] = doc
	return nil
}

// Save returns the active document of family.
func (m *MockRuleEngine) Save(ctx context.Context, family netfilter.Family) ([]byte, error) {
	m.SaveCalls++
	m.Journal.record("save %s", family)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, family)
	}
	return append([]byte(nil), m.Active[family]...), nil
}

// MockSetEngine is a mock implementation of the SetEngine interface.
type MockSetEngine struct {
	// RestoreFunc is called by Restore if not nil
	RestoreFunc func(ctx context.Context, document []byte) error

	// ListNamesFunc is called by ListNames if not nil
	ListNamesFunc func(ctx context.Context) ([]string, error)

	// Names is returned by ListNames when ListNamesFunc is nil
	Names []string

	// Journal receives "restore ipset" entries if not nil
	Journal *Journal

	// Track calls for verification in tests
	Restored      [][]byte
	RestoreCalls  int
	ListNameCalls int
}

// NewMockSetEngine creates a new mock set engine with default behavior.
func NewMockSetEngine() *MockSetEngine {
	return &MockSetEngine{}
}

// Restore records document.
func (m *MockSetEngine) Restore(ctx context.Context, document []byte) error {
	m.RestoreCalls++
	m.Journal.record("restore ipset")
	m.Restored = append(m.Restored, append([]byte(nil), document...))
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, document)
	}
	return nil
}

// ListNames returns Names.
func (m *MockSetEngine) ListNames(ctx context.Context) ([]string, error) {
	m.ListNameCalls++
	if m.ListNamesFunc != nil {
		return m.ListNamesFunc(ctx)
	}
	return m.Names, nil
}

// MockSnapshotStore is an in-memory implementation of the SnapshotStore interface.
type MockSnapshotStore struct {
	// SaveFunc is called by Save if not nil. A non-nil error stores nothing.
	SaveFunc func(id snapshot.ID, document []byte) error

	// LoadFunc is called by Load if not nil
	LoadFunc func(id snapshot.ID) ([]byte, error)

	// Documents holds the saved snapshots
	Documents map[snapshot.ID][]byte

	// DirPath is returned by Dir
	DirPath string

	// Journal receives "snapshot <id>" entries on save if not nil
	Journal *Journal

	SaveCalls int
	LoadCalls int
}

// NewMockSnapshotStore creates an empty in-memory snapshot store.
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{Documents: make(map[snapshot.ID][]byte), DirPath: "/mock"}
}

// Save stores document under id.
func (m *MockSnapshotStore) Save(id snapshot.ID, document []byte) error {
	m.SaveCalls++
	m.Journal.record("snapshot %s", id)
	if m.SaveFunc != nil {
		if err := m.SaveFunc(id, document); err != nil {
			return err
		}
	}
	if m.Documents == nil {
		m.Documents = make(map[snapshot.ID][]byte)
	}
	m.Documents[id] = append([]byte(nil), document...)
	return nil
}

// Load returns the document stored under id.
func (m *MockSnapshotStore) Load(id snapshot.ID) ([]byte, error) {
	m.LoadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc(id)
	}
	doc, ok := m.Documents[id]
	if !ok {
		return nil, fwerrors.NewSnapshotNotFoundError(string(id))
	}
	return append([]byte(nil), doc...), nil
}

// Exists reports whether a document is stored under id.
func (m *MockSnapshotStore) Exists(id snapshot.ID) bool {
	_, ok := m.Documents[id]
	return ok
}

// Dir returns DirPath.
func (m *MockSnapshotStore) Dir() string {
	return m.DirPath
}

// MockInterfaceLister is a mock implementation of the InterfaceLister interface.
type MockInterfaceLister struct {
	Names []string
	Err   error
}

// InterfaceNames returns Names or Err.
func (m *MockInterfaceLister) InterfaceNames() ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Names, nil
}
