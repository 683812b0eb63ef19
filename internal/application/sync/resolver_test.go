package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/sync"
)

// fakeLookup implements Lookup with pluggable behavior
type fakeLookup struct {
	findLinkedFunc func(ctx context.Context, remoteID string) (uuid.UUID, bool, error)
	byNameFunc     func(ctx context.Context, name string) ([]Candidate, error)
	byEmailFunc    func(ctx context.Context, email string) ([]Candidate, error)
}

func (f *fakeLookup) FindLinked(ctx context.Context, remoteID string) (uuid.UUID, bool, error) {
	if f.findLinkedFunc == nil {
		return uuid.Nil, false, nil
	}
	return f.findLinkedFunc(ctx, remoteID)
}

func (f *fakeLookup) UnlinkedByName(ctx context.Context, name string) ([]Candidate, error) {
	if f.byNameFunc == nil {
		return nil, nil
	}
	return f.byNameFunc(ctx, name)
}

func (f *fakeLookup) UnlinkedByEmail(ctx context.Context, email string) ([]Candidate, error) {
	if f.byEmailFunc == nil {
		return nil, nil
	}
	return f.byEmailFunc(ctx, email)
}

func testRecord() sync.RemoteRecord {
	return sync.RemoteRecord{
		RemoteID:    "R-100",
		EntityType:  sync.EntityTypeCustomers,
		DisplayName: "Apex Fabrication",
		Email:       "accounts@apexfab.example",
		ModifiedAt:  time.Now(),
	}
}

func TestResolver_LinkedMatchWins(t *testing.T) {
	audit, repo := newTestAudit()
	resolver := NewResolver(audit)
	linkedID := uuid.New()

	lookup := &fakeLookup{
		findLinkedFunc: func(ctx context.Context, remoteID string) (uuid.UUID, bool, error) {
			assert.Equal(t, "R-100", remoteID)
			return linkedID, true, nil
		},
		byNameFunc: func(ctx context.Context, name string) ([]Candidate, error) {
			t.Fatal("heuristic matching must not run when a link exists")
			return nil, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, decision.Action)
	assert.Equal(t, linkedID, decision.TargetID)
	assert.False(t, decision.Ambiguous)
	assert.Empty(t, repo.records)
}

func TestResolver_SingleNameCandidateLinks(t *testing.T) {
	audit, _ := newTestAudit()
	resolver := NewResolver(audit)
	candidateID := uuid.New()

	lookup := &fakeLookup{
		byNameFunc: func(ctx context.Context, name string) ([]Candidate, error) {
			assert.Equal(t, "Apex Fabrication", name)
			return []Candidate{{ID: candidateID, CreatedAt: time.Now()}}, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionLink, decision.Action)
	assert.Equal(t, candidateID, decision.TargetID)
}

func TestResolver_EmailFallbackWhenNameMisses(t *testing.T) {
	audit, _ := newTestAudit()
	resolver := NewResolver(audit)
	candidateID := uuid.New()

	lookup := &fakeLookup{
		byEmailFunc: func(ctx context.Context, email string) ([]Candidate, error) {
			assert.Equal(t, "accounts@apexfab.example", email)
			return []Candidate{{ID: candidateID, CreatedAt: time.Now()}}, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionLink, decision.Action)
	assert.Equal(t, candidateID, decision.TargetID)
}

func TestResolver_NameMatchSuppressesEmailFallback(t *testing.T) {
	audit, _ := newTestAudit()
	resolver := NewResolver(audit)
	nameID := uuid.New()

	lookup := &fakeLookup{
		byNameFunc: func(ctx context.Context, name string) ([]Candidate, error) {
			return []Candidate{{ID: nameID, CreatedAt: time.Now()}}, nil
		},
		byEmailFunc: func(ctx context.Context, email string) ([]Candidate, error) {
			t.Fatal("email fallback must not run after a name match")
			return nil, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, nameID, decision.TargetID)
}

func TestResolver_NoMatchCreates(t *testing.T) {
	audit, repo := newTestAudit()
	resolver := NewResolver(audit)

	decision, err := resolver.Resolve(context.Background(), &fakeLookup{}, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionCreate, decision.Action)
	assert.Equal(t, uuid.Nil, decision.TargetID)
	assert.False(t, decision.Ambiguous)
	assert.Empty(t, repo.records)
}

func TestResolver_MultipleCandidates_NewestWins(t *testing.T) {
	audit, repo := newTestAudit()
	resolver := NewResolver(audit)
	older := Candidate{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	newer := Candidate{ID: uuid.New(), CreatedAt: time.Now()}

	lookup := &fakeLookup{
		byNameFunc: func(ctx context.Context, name string) ([]Candidate, error) {
			return []Candidate{newer, older}, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionLink, decision.Action)
	assert.Equal(t, newer.ID, decision.TargetID)
	assert.Empty(t, repo.records)
}

func TestResolver_MultipleCandidates_TiedCreatesAndAudits(t *testing.T) {
	audit, repo := newTestAudit()
	resolver := NewResolver(audit)
	createdAt := time.Now()
	first := Candidate{ID: uuid.New(), CreatedAt: createdAt}
	second := Candidate{ID: uuid.New(), CreatedAt: createdAt}

	lookup := &fakeLookup{
		byNameFunc: func(ctx context.Context, name string) ([]Candidate, error) {
			return []Candidate{first, second}, nil
		},
	}

	decision, err := resolver.Resolve(context.Background(), lookup, testRecord())

	require.NoError(t, err)
	assert.Equal(t, ActionCreate, decision.Action)
	assert.True(t, decision.Ambiguous)

	ambiguous := repo.byKind(sync.ErrorKindReconcileAmbiguous)
	require.Len(t, ambiguous, 1)
	assert.Equal(t, "R-100", ambiguous[0].RemoteID)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ambiguous[0].LocalCandidates)
}

func TestResolver_InvalidRecord(t *testing.T) {
	audit, _ := newTestAudit()
	resolver := NewResolver(audit)

	rec := testRecord()
	rec.RemoteID = ""
	_, err := resolver.Resolve(context.Background(), &fakeLookup{}, rec)
	assert.Error(t, err)

	rec = testRecord()
	rec.EntityType = "unknown"
	_, err = resolver.Resolve(context.Background(), &fakeLookup{}, rec)
	assert.ErrorIs(t, err, sync.ErrInvalidEntityType)
}

func TestResolver_LookupErrorPropagates(t *testing.T) {
	audit, _ := newTestAudit()
	resolver := NewResolver(audit)
	boom := errors.New("storage down")

	lookup := &fakeLookup{
		findLinkedFunc: func(ctx context.Context, remoteID string) (uuid.UUID, bool, error) {
			return uuid.Nil, false, boom
		},
	}

	_, err := resolver.Resolve(context.Background(), lookup, testRecord())
	assert.ErrorIs(t, err, boom)
}
