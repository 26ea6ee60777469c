package ir

// Version constants for persisted records.
const (
	// SchemaVersion is the version of records written to the journal.
	SchemaVersion = "1"

	// TableVersion is the version of the entry point table. Bump when an
	// entry point is added or its arity changes.
	TableVersion = "1"
)
