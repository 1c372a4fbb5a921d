package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change behind a WatchEvent.
type WatchOp uint8

// Changes reported by a Watcher.
const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

var watchOpNames = [...]string{
	OpCreate: "create",
	OpWrite:  "write",
	OpRemove: "remove",
	OpRename: "rename",
}

func (op WatchOp) String() string {
	if int(op) < len(watchOpNames) {
		return watchOpNames[op]
	}
	return "unknown"
}

// WatchEvent is one change below the watched project root. Path is absolute.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher reports changes to files below a project root for watch mode.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root and every directory below it, including directories
	// created later.
	Start(ctx context.Context, root string) error
	// Stop releases the watches. Events ends once Stop returns.
	Stop() error
	Events() iter.Seq[WatchEvent]
}
