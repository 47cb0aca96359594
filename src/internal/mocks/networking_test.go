package mocks

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/maksimkurb/fwgen/src/internal/domain"
	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

var (
	_ domain.RuleEngine      = (*MockRuleEngine)(nil)
	_ domain.SetEngine       = (*MockSetEngine)(nil)
	_ domain.SnapshotStore   = (*MockSnapshotStore)(nil)
	_ domain.InterfaceLister = (*MockInterfaceLister)(nil)
)

// TestMockRuleEngine_DefaultBehavior tests that Save returns what Restore applied
func TestMockRuleEngine_DefaultBehavior(t *testing.T) {
	mock := NewMockRuleEngine()
	ctx := context.Background()

	if err := mock.Restore(ctx, netfilter.IPv4, []byte("v4")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	saved, err := mock.Save(ctx, netfilter.IPv4)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(saved) != "v4" {
		t.Errorf("Expected saved document v4, got %q", saved)
	}

	empty, _ := mock.Save(ctx, netfilter.IPv6)
	if len(empty) != 0 {
		t.Errorf("Expected empty document for untouched family, got %q", empty)
	}

	if mock.RestoreCalls != 1 || mock.SaveCalls != 2 {
		t.Errorf("Unexpected call counts: restore=%d save=%d", mock.RestoreCalls, mock.SaveCalls)
	}
}

// TestMockRuleEngine_FailedRestoreKeepsState tests that a failing submission changes nothing
func TestMockRuleEngine_FailedRestoreKeepsState(t *testing.T) {
	mock := NewMockRuleEngine()
	ctx := context.Background()
	_ = mock.Restore(ctx, netfilter.IPv6, []byte("old"))

	mock.RestoreFunc = func(context.Context, netfilter.Family, []byte) error {
		return errors.New("rejected")
	}
	if err := mock.Restore(ctx, netfilter.IPv6, []byte("new")); err == nil {
		t.Fatal("Expected error from RestoreFunc")
	}

	if string(mock.Active[netfilter.IPv6]) != "old" {
		t.Errorf("Expected active document to stay old, got %q", mock.Active[netfilter.IPv6])
	}
	if len(mock.Restored) != 2 {
		t.Errorf("Expected both submissions to be recorded, got %d", len(mock.Restored))
	}
}

// TestJournal_SharedAcrossMocks tests ordering across engines
func TestJournal_SharedAcrossMocks(t *testing.T) {
	journal := &Journal{}
	rules := NewMockRuleEngine()
	rules.Journal = journal
	sets := NewMockSetEngine()
	sets.Journal = journal
	store := NewMockSnapshotStore()
	store.Journal = journal
	ctx := context.Background()

	_ = sets.Restore(ctx, []byte("x"))
	_ = rules.Restore(ctx, netfilter.IPv4, []byte("y"))
	_ = store.Save(snapshot.Sets, []byte("z"))

	expected := []string{"restore ipset", "restore ipv4", "snapshot ipsets"}
	if !reflect.DeepEqual(journal.Entries, expected) {
		t.Errorf("Journal = %v, want %v", journal.Entries, expected)
	}
}

// TestMockSnapshotStore tests the in-memory store
func TestMockSnapshotStore(t *testing.T) {
	store := NewMockSnapshotStore()

	if store.Exists(snapshot.IPv4Rules) {
		t.Error("Expected empty store")
	}
	if _, err := store.Load(snapshot.IPv4Rules); !errors.Is(err, fwerrors.ErrSnapshotNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := store.Save(snapshot.IPv4Rules, []byte("doc")); err != nil {
		t.Fatal(err)
	}
	doc, err := store.Load(snapshot.IPv4Rules)
	if err != nil || string(doc) != "doc" {
		t.Errorf("Load() = %q, %v", doc, err)
	}

	store.SaveFunc = func(snapshot.ID, []byte) error { return errors.New("disk full") }
	if err := store.Save(snapshot.IPv6Rules, []byte("doc")); err == nil {
		t.Error("Expected SaveFunc error")
	}
	if store.Exists(snapshot.IPv6Rules) {
		t.Error("Failed save must not store a document")
	}
}

// TestMockSetEngine_CustomBehavior tests Func overrides
func TestMockSetEngine_CustomBehavior(t *testing.T) {
	mock := NewMockSetEngine()
	mock.Names = []string{"a"}

	names, err := mock.ListNames(context.Background())
	if err != nil || !reflect.DeepEqual(names, []string{"a"}) {
		t.Errorf("ListNames() = %v, %v", names, err)
	}

	mock.RestoreFunc = func(context.Context, []byte) error { return errors.New("in use") }
	if err := mock.Restore(context.Background(), []byte("destroy\n")); err == nil {
		t.Error("Expected error from RestoreFunc")
	}
	if mock.RestoreCalls != 1 {
		t.Errorf("Expected 1 call, got %d", mock.RestoreCalls)
	}
}
