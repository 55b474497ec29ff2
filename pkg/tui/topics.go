package tui

const (
	TopicStateChanges = "statekit.state.changes"
)

const (
	DomainTypeStoreChanged = "store.changed"
	DomainTypeScopeChanged = "scope.changed"
)
