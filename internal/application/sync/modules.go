package sync

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Entity sync modules
// ---------------------------------------------------------------------------

// Outcome is what applying one remote record did locally
type Outcome string

const (
	// OutcomeCreated means a new local entity was created for the record
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means an already-linked entity absorbed the record
	OutcomeUpdated Outcome = "updated"
	// OutcomeLinked means an unlinked entity claimed the record's remote id
	OutcomeLinked Outcome = "linked"
	// OutcomeUnchanged means the record was already current locally
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped means the record was intentionally not applied; when the
	// skip needs operator attention the module filed an audit record
	OutcomeSkipped Outcome = "skipped"
)

// EntityModule applies remote records of one entity family to local storage.
// Apply must be idempotent: re-applying an already-current record returns
// OutcomeUnchanged and writes nothing.
type EntityModule interface {
	Type() sync.EntityType
	Apply(ctx context.Context, rec sync.RemoteRecord) (Outcome, error)
}

// Registry holds one module per entity type
type Registry struct {
	modules map[sync.EntityType]EntityModule
}

// NewRegistry builds a registry from modules. A duplicate entity type is a
// wiring bug and panics at startup.
func NewRegistry(modules ...EntityModule) *Registry {
	r := &Registry{modules: make(map[sync.EntityType]EntityModule, len(modules))}
	for _, m := range modules {
		if _, dup := r.modules[m.Type()]; dup {
			panic("sync: duplicate module for entity type " + m.Type().String())
		}
		r.modules[m.Type()] = m
	}
	return r
}

// Get returns the module for an entity type
func (r *Registry) Get(t sync.EntityType) (EntityModule, bool) {
	m, ok := r.modules[t]
	return m, ok
}

// ---------------------------------------------------------------------------
// Payload field access
// ---------------------------------------------------------------------------

// payloadString reads a string field from a decoded remote payload
func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// payloadDecimal reads a numeric field from a decoded remote payload. The
// remote client decodes with UseNumber, so numbers arrive as json.Number and
// convert string-exact; the float64 branch only covers payload maps built
// without a decoder and converts through the shortest round-trip string.
func payloadDecimal(payload map[string]any, key string) decimal.Decimal {
	switch v := payload[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case float64:
		if d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', -1, 64)); err == nil {
			return d
		}
	}
	return decimal.Zero
}
