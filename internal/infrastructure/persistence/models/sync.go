package models

import (
	"encoding/json"
	"time"

	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/google/uuid"
)

// SyncWatermarkModel is the persistence model for the per-entity-type sync
// watermark. EntityType is the primary key: one row per entity type.
type SyncWatermarkModel struct {
	EntityType   sync.EntityType `gorm:"type:varchar(30);primary_key"`
	LastSyncedAt *time.Time      `gorm:""`
	InProgress   bool            `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncWatermarkModel) TableName() string {
	return "sync_watermarks"
}

// ToDomain converts the persistence model to a domain Watermark.
func (m *SyncWatermarkModel) ToDomain() *sync.Watermark {
	return &sync.Watermark{
		EntityType:   m.EntityType,
		LastSyncedAt: m.LastSyncedAt,
		InProgress:   m.InProgress,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SyncErrorRecordModel is the persistence model for the append-only audit
// trail. Rows are inserted and read, never updated or deleted.
type SyncErrorRecordModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	Kind       sync.ErrorKind  `gorm:"type:varchar(40);not null;index"`
	EntityType sync.EntityType `gorm:"type:varchar(30);not null;index"`
	RemoteID   string          `gorm:"type:varchar(100)"`
	// LocalCandidates is a JSON array of local entity UUIDs
	LocalCandidates string    `gorm:"type:text"`
	Message         string    `gorm:"type:text;not null"`
	Detail          string    `gorm:"type:text"`
	OccurredAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SyncErrorRecordModel) TableName() string {
	return "sync_error_records"
}

// ToDomain converts the persistence model to a domain ErrorRecord.
func (m *SyncErrorRecordModel) ToDomain() *sync.ErrorRecord {
	var candidates []uuid.UUID
	if m.LocalCandidates != "" {
		// A row written by Append always holds a valid array; tolerate anything else
		_ = json.Unmarshal([]byte(m.LocalCandidates), &candidates)
	}
	return &sync.ErrorRecord{
		ID:              m.ID,
		Kind:            m.Kind,
		EntityType:      m.EntityType,
		RemoteID:        m.RemoteID,
		LocalCandidates: candidates,
		Message:         m.Message,
		Detail:          m.Detail,
		OccurredAt:      m.OccurredAt,
	}
}

// SyncErrorRecordModelFromDomain creates a new persistence model from a domain ErrorRecord.
func SyncErrorRecordModelFromDomain(r *sync.ErrorRecord) *SyncErrorRecordModel {
	m := &SyncErrorRecordModel{
		ID:         r.ID,
		Kind:       r.Kind,
		EntityType: r.EntityType,
		RemoteID:   r.RemoteID,
		Message:    r.Message,
		Detail:     r.Detail,
		OccurredAt: r.OccurredAt,
	}
	if len(r.LocalCandidates) > 0 {
		encoded, err := json.Marshal(r.LocalCandidates)
		if err == nil {
			m.LocalCandidates = string(encoded)
		}
	}
	return m
}
