// Package symbol manages symbols. Symbols are deduped strings represented as
// small integers, so that the hot dispatch path (variable lookup, function
// signature hashing) never compares or hashes raw strings.
package symbol

import (
	"sync"

	"github.com/grailbio/base/log"

	"github.com/appellation/rhai/hash"
)

// ID represents an interned symbol.
type ID int32

// Invalid is a sentinel returned by failed lookups.
const Invalid = ID(0)

// GetterPrefix and SetterPrefix derive the internal dispatch name of a
// property accessor from its field name (e.g. field "x" becomes functions
// "get$x"/"set$x"), per the chain engine's property desugaring.
const (
	GetterPrefix = "get$"
	SetterPrefix = "set$"
)

type idInfo struct {
	name string
	hash hash.Hash
}

type table struct {
	mu    sync.RWMutex
	byStr map[string]ID
	ids   []idInfo
}

var symbols = newTable()

func newTable() *table {
	t := &table{byStr: map[string]ID{"": Invalid}}
	t.ids = append(t.ids, idInfo{name: "(invalid)"})
	return t
}

// Intern finds or creates an ID for the given string. The empty string is
// rejected: callers that need an "absent" sentinel should use Invalid.
func Intern(v string) ID {
	if v == "" {
		log.Panicf("symbol: empty symbol")
	}
	symbols.mu.RLock()
	if id, ok := symbols.byStr[v]; ok {
		symbols.mu.RUnlock()
		return id
	}
	symbols.mu.RUnlock()

	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	if id, ok := symbols.byStr[v]; ok {
		return id
	}
	id := ID(len(symbols.ids))
	symbols.ids = append(symbols.ids, idInfo{name: v, hash: hash.String(v)})
	symbols.byStr[v] = id
	return id
}

// Str returns the interned string for id. Note: not named String(), to keep
// ID comparable and avoid accidental fmt.Stringer-driven allocations on the
// hot path.
func (id ID) Str() string {
	symbols.mu.RLock()
	defer symbols.mu.RUnlock()
	if int(id) >= len(symbols.ids) {
		log.Panicf("symbol: id %d not found", id)
	}
	return symbols.ids[id].name
}

// Hash returns the precomputed hash of id's underlying string.
func (id ID) Hash() hash.Hash {
	symbols.mu.RLock()
	defer symbols.mu.RUnlock()
	return symbols.ids[id].hash
}

// Valid reports whether id refers to an interned symbol.
func (id ID) Valid() bool { return id != Invalid }
