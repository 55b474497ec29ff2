package tui

import "time"

// StateChangedMsg is delivered to the program after a store or scope notified
// its subscribers.
type StateChangedMsg struct {
	Change Change
}

// Change is the decoded form of a published envelope.
type Change struct {
	Seq    uint64
	Type   string
	Source string
	At     time.Time
	Store  *StoreChanged
	Scope  *ScopeChanged
}

// Summary renders a one-line description for the change log.
func (c Change) Summary() string {
	switch {
	case c.Store != nil:
		return c.Store.Summary()
	case c.Scope != nil:
		return c.Scope.Summary()
	default:
		return c.Type
	}
}

type EventLogEntry struct {
	Seq    uint64
	At     time.Time
	Source string
	Text   string
}

// RemountGroupMsg asks the root to tear down and recreate a group's scope.
type RemountGroupMsg struct {
	Index int
}
