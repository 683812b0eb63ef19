// Package sync holds the domain model for bidirectional synchronization with the
// external accounting/payroll system: entity type ordering, watermarks, remote
// records, run results, and the append-only error audit trail.
//
// The external system is the system of record for financial and payroll data. The
// types here describe what a sync run observes and produces; the orchestration
// itself lives in internal/application/sync, and the HTTP adapter for the remote
// API lives in internal/infrastructure/remote.
package sync
