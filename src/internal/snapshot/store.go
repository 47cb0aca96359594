// Package snapshot persists the last committed restore documents, one file per family,
// in a directory scoped by network namespace.
package snapshot

import (
	"errors"
	"os"
	"path/filepath"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
	"github.com/maksimkurb/fwgen/src/internal/netfilter"
	"github.com/maksimkurb/fwgen/src/internal/utils"
)

// ID identifies one snapshot document.
type ID string

const (
	IPv4Rules ID = "iptables"
	IPv6Rules ID = "ip6tables"
	Sets      ID = "ipsets"
)

const (
	fileSuffix = ".restore"
	dirPerm    = 0o755
	filePerm   = 0o600
)

// RulesID returns the snapshot id for a family's rule document.
func RulesID(family netfilter.Family) ID {
	if family == netfilter.IPv6 {
		return IPv6Rules
	}
	return IPv4Rules
}

// FileName returns the file name the document is stored under.
func (id ID) FileName() string {
	return string(id) + fileSuffix
}

// ScopeDir returns the directory snapshots live in: baseDir itself for the default
// namespace, <baseDir>/netns/<namespace> otherwise.
func ScopeDir(baseDir, namespace string) string {
	if namespace == "" {
		return baseDir
	}
	return filepath.Join(baseDir, "netns", namespace)
}

// Store reads and writes snapshot documents. Each save replaces the previous document.
type Store struct {
	dir string
}

// NewStore creates a store for the given base directory and namespace.
// The namespace is fixed for the lifetime of the store.
func NewStore(baseDir, namespace string) *Store {
	return &Store{dir: ScopeDir(baseDir, namespace)}
}

// Dir returns the namespace-scoped directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of a snapshot.
func (s *Store) Path(id ID) string {
	return filepath.Join(s.dir, id.FileName())
}

// Save atomically replaces the snapshot, creating the directory if needed.
func (s *Store) Save(id ID, document []byte) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fwerrors.NewSnapshotIOError(string(id), err)
	}
	if err := utils.WriteFileAtomic(s.Path(id), document, filePerm); err != nil {
		return fwerrors.NewSnapshotIOError(string(id), err)
	}
	log.Debugf("Saved snapshot %s (%d bytes)", s.Path(id), len(document))
	return nil
}

// Load returns the saved document, or a not-found error if none was ever saved.
func (s *Store) Load(id ID) ([]byte, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fwerrors.NewSnapshotNotFoundError(string(id))
		}
		return nil, fwerrors.NewSnapshotIOError(string(id), err)
	}
	return data, nil
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists(id ID) bool {
	info, err := os.Stat(s.Path(id))
	return err == nil && info.Mode().IsRegular()
}
