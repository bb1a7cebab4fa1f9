// Package store is the record-store collaborator: tenant-scoped persistence
// for location records. Every mutating call is scoped by both row id and
// organization id; a bare id-only update is never issued.
package store

import "context"

// Record is one persisted location row. The store assigns ids; the grid
// never does.
type Record struct {
	ID       string
	OrgID    string
	ClientID string
	Fields   map[string]any
}

// Store is the persistence interface the edit engine and TUI depend on.
type Store interface {
	// List returns the org's records for one client, in creation order.
	List(ctx context.Context, orgID, clientID string) ([]Record, error)
	// Update sets a single field on one record, scoped by id and org.
	Update(ctx context.Context, id, orgID, field string, value any) error
	// InsertOne creates one record and returns it with its assigned id.
	InsertOne(ctx context.Context, orgID, clientID string, fields map[string]any) (Record, error)
	// InsertMany creates records as a single batch and returns them with
	// assigned ids, in payload order.
	InsertMany(ctx context.Context, orgID, clientID string, payloads []map[string]any) ([]Record, error)
	// DeleteMany removes records by id, scoped by org.
	DeleteMany(ctx context.Context, ids []string, orgID string) error
}
