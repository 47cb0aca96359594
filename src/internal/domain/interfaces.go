// Package domain defines core interfaces for dependency injection and abstraction.
//
// Each external engine the firewall talks to is reduced to the few operations the
// lifecycle needs, so the controller can be tested against fakes without touching
// the host's packet filter.
package domain

import (
	"context"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/snapshot"
)

// RuleEngine is the packet-filter engine of the host.
//
// Implementations must apply a restore document as a single submission: either every
// table in it is replaced or none is.
type RuleEngine interface {
	// Restore replaces all tables present in document for the given family.
	Restore(ctx context.Context, family netfilter.Family, document []byte) error

	// Save exports the active tables of the given family as a restore document.
	Save(ctx context.Context, family netfilter.Family) ([]byte, error)
}

// SetEngine is the address-set engine of the host.
type SetEngine interface {
	// Restore runs a sequence of create/flush/add/destroy commands in one submission.
	Restore(ctx context.Context, document []byte) error

	// ListNames returns the names of the sets that currently exist.
	ListNames(ctx context.Context) ([]string, error)
}

// SnapshotStore persists the last committed documents.
type SnapshotStore interface {
	// Save atomically replaces the document stored under id.
	Save(id snapshot.ID, document []byte) error

	// Load returns the stored document or a snapshot-not-found error.
	Load(id snapshot.ID) ([]byte, error)

	// Exists reports whether a document is stored under id.
	Exists(id snapshot.ID) bool

	// Dir returns the directory the documents live in.
	Dir() string
}

// ChainInspector reads the live chain layout of one family.
type ChainInspector interface {
	// ListChains returns the chains of a table.
	ListChains(table string) ([]string, error)

	// Version returns the engine version string.
	Version() string
}

// InterfaceLister reports the network interfaces present on the host.
type InterfaceLister interface {
	// InterfaceNames returns the names of all host interfaces.
	InterfaceNames() ([]string, error)
}
