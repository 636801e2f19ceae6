package database

import "errors"

var (
	// ErrUnknownTable is returned when a table is not part of the schema registry
	ErrUnknownTable = errors.New("table not found")
	// ErrUnknownColumn is returned when a column does not belong to the table
	ErrUnknownColumn = errors.New("column not found")
	// ErrSchemaMismatch is returned when the live store disagrees with the registry
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrNotFound is returned when a lookup by key matches no row
	ErrNotFound = errors.New("not found")
	// ErrTrackerInitialized is returned when seeding a tracker that already has rows
	ErrTrackerInitialized = errors.New("tracker already initialized")
)
