package sync

import (
	"context"
	"time"
)

// Page is one page of remote records plus the cursor for the next fetch.
type Page struct {
	Records []RemoteRecord
	// NextCursor is the opaque pagination cursor; empty when this is the last page
	NextCursor string
}

// HasMore returns true when another page follows
func (p *Page) HasMore() bool {
	return p.NextCursor != ""
}

// Client is the port to the remote accounting/payroll system. Implementations
// only perform the network call; no local state is touched here. Every returned
// error wraps one of the sentinel remote errors so callers can classify with
// errors.Is.
type Client interface {
	// FetchPage lists records of one entity type modified at or after
	// modifiedSince, starting from cursor (empty for the first page).
	FetchPage(ctx context.Context, entityType EntityType, modifiedSince time.Time, cursor string) (*Page, error)

	// Push creates or updates a remote record. With an empty remoteID it creates
	// and returns the new remote id; with a remoteID it updates in place and
	// returns the same id.
	Push(ctx context.Context, entityType EntityType, payload map[string]any, remoteID string) (string, error)

	// Void marks a remote record as voided. The record stays visible on the
	// remote side for audit.
	Void(ctx context.Context, entityType EntityType, remoteID string) error
}
