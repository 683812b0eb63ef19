// Package sync contains the synchronization engine: the reconciliation
// resolver, per-entity sync modules, the outbound document pusher, the payroll
// poster, and the orchestrator that sequences a run. Domain rules live in
// internal/domain; this package wires them to the remote client and the
// repositories.
package sync
