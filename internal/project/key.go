// Package project resolves a project's output directory and ProjectKey, and
// loads the per-project configuration file.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// KeyLength is the number of hex digits retained from the hash. 12 digits
// (48 bits) gives negligible collision risk for the number of projects any
// single machine will realistically track.
const KeyLength = 12

// Key identifies a project's output directory. It is a deterministic
// function of the project's canonical absolute path: the same path always
// yields the same Key, across processes and machines.
type Key string

// NewKey computes the ProjectKey for an absolute project root. root must
// already be cleaned and absolute; callers resolve symlinks/relative paths
// before calling this.
func NewKey(root string) Key {
	clean := filepath.Clean(root)
	sum := xxhash.Sum64String(clean)
	return Key(fmt.Sprintf("%016x", sum)[:KeyLength])
}

func (k Key) String() string { return string(k) }
