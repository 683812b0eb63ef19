package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/interfaces/http/dto"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fakeRunner struct {
	lastOpts appsync.Options
	result   *sync.RunResult
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, opts appsync.Options) (*sync.RunResult, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &sync.RunResult{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Entities: []sync.EntityResult{
			{EntityType: sync.EntityTypeCustomers, Status: sync.EntityStatusSuccess},
		},
	}, nil
}

type fakeHinter struct {
	hintErr  error
	hinted   int
	lastRun  *sync.RunResult
	lastWhen time.Time
}

func (f *fakeHinter) Hint() error {
	if f.hintErr != nil {
		return f.hintErr
	}
	f.hinted++
	return nil
}

func (f *fakeHinter) LastRun() (*sync.RunResult, time.Time) {
	return f.lastRun, f.lastWhen
}

type fakeWatermarkRepo struct {
	watermarks []sync.Watermark
}

func (f *fakeWatermarkRepo) Get(ctx context.Context, t sync.EntityType) (*sync.Watermark, error) {
	return &sync.Watermark{EntityType: t}, nil
}

func (f *fakeWatermarkRepo) GetAll(ctx context.Context) ([]sync.Watermark, error) {
	return f.watermarks, nil
}

func (f *fakeWatermarkRepo) Claim(ctx context.Context, t sync.EntityType) error   { return nil }
func (f *fakeWatermarkRepo) Release(ctx context.Context, t sync.EntityType) error { return nil }
func (f *fakeWatermarkRepo) Advance(ctx context.Context, t sync.EntityType, at time.Time) error {
	return nil
}

type fakeAuditRepo struct {
	records []sync.ErrorRecord
	lastFilter sync.ErrorRecordFilter
}

func (f *fakeAuditRepo) Append(ctx context.Context, record *sync.ErrorRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, filter sync.ErrorRecordFilter) ([]sync.ErrorRecord, int64, error) {
	f.lastFilter = filter
	return f.records, int64(len(f.records)), nil
}

func (f *fakeAuditRepo) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	for _, r := range f.records {
		if !r.OccurredAt.Before(t) {
			n++
		}
	}
	return n, nil
}

type syncFixture struct {
	runner  *fakeRunner
	hinter  *fakeHinter
	repo    *fakeWatermarkRepo
	audit   *fakeAuditRepo
	router  *gin.Engine
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &syncFixture{
		runner: &fakeRunner{},
		hinter: &fakeHinter{},
		repo:   &fakeWatermarkRepo{},
		audit:  &fakeAuditRepo{},
	}
	gateway := appsync.NewAuditGateway(f.audit, newTestLogger())
	h := NewSyncHandler(f.runner, f.hinter, f.repo, gateway)

	f.router = gin.New()
	h.RegisterRoutes(f.router.Group("/api/v1"))
	return f
}

func (f *syncFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---------------------------------------------------------------------------
// SyncHandler Tests
// ---------------------------------------------------------------------------

func TestSyncHandler_Run_EmptyBodyRunsEverything(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.runner.lastOpts.EntityType)
	assert.Nil(t, f.runner.lastOpts.Window)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestSyncHandler_Run_ReportsErrorRecordsSinceStart(t *testing.T) {
	f := newSyncFixture(t)
	startedAt := time.Now().Add(-time.Minute)
	f.runner.result = &sync.RunResult{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Entities: []sync.EntityResult{
			{EntityType: sync.EntityTypeCustomers, Status: sync.EntityStatusPartial, Failed: 1},
		},
	}

	older := *sync.NewErrorRecord(sync.ErrorKindMappingInvalid, sync.EntityTypeProjects, "R-0", "stale", "")
	older.OccurredAt = startedAt.Add(-time.Hour)
	during := *sync.NewErrorRecord(sync.ErrorKindMappingInvalid, sync.EntityTypeCustomers, "R-1", "bad record", "")
	during.OccurredAt = startedAt.Add(time.Second)
	f.audit.records = []sync.ErrorRecord{older, during}

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["error_records"])
}

func TestSyncHandler_Run_RestrictsEntityType(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", gin.H{"entity_type": "customers"})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.runner.lastOpts.EntityType)
	assert.Equal(t, sync.EntityTypeCustomers, *f.runner.lastOpts.EntityType)
}

func TestSyncHandler_Run_UnknownEntityType(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", gin.H{"entity_type": "widgets"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestSyncHandler_Run_DeepSyncWindow(t *testing.T) {
	f := newSyncFixture(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", gin.H{
		"window": gin.H{"start": start, "end": end},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.runner.lastOpts.Window)
	assert.True(t, f.runner.lastOpts.Window.Start.Equal(start))
	assert.True(t, f.runner.lastOpts.Window.End.Equal(end))
}

func TestSyncHandler_Run_InvalidWindowRejected(t *testing.T) {
	f := newSyncFixture(t)
	f.runner.err = sync.ErrInvalidWindow

	w := f.do(t, http.MethodPost, "/api/v1/sync/runs", gin.H{
		"window": gin.H{
			"start": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			"end":   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_Hint(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/sync/hint", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, f.hinter.hinted)
}

func TestSyncHandler_Hint_TriggerNotRunning(t *testing.T) {
	f := newSyncFixture(t)
	f.hinter.hintErr = assert.AnError

	w := f.do(t, http.MethodPost, "/api/v1/sync/hint", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncHandler_LastRun(t *testing.T) {
	f := newSyncFixture(t)
	f.hinter.lastRun = &sync.RunResult{
		Entities: []sync.EntityResult{
			{EntityType: sync.EntityTypeAccounts, Status: sync.EntityStatusSuccess},
		},
	}
	f.hinter.lastWhen = time.Now()

	w := f.do(t, http.MethodGet, "/api/v1/sync/runs/last", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestSyncHandler_ListWatermarks(t *testing.T) {
	f := newSyncFixture(t)
	syncedAt := time.Now().Add(-time.Hour)
	f.repo.watermarks = []sync.Watermark{
		{EntityType: sync.EntityTypeCustomers, LastSyncedAt: &syncedAt, UpdatedAt: time.Now()},
		{EntityType: sync.EntityTypeProjects, InProgress: true, UpdatedAt: time.Now()},
	}

	w := f.do(t, http.MethodGet, "/api/v1/sync/watermarks", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)
}

func TestSyncHandler_ListErrors_Filters(t *testing.T) {
	f := newSyncFixture(t)
	f.audit.records = []sync.ErrorRecord{
		*sync.NewErrorRecord(sync.ErrorKindMappingInvalid, sync.EntityTypeCustomers, "R-1", "bad record", ""),
	}

	w := f.do(t, http.MethodGet, "/api/v1/sync/errors?kind=mapping_invalid&entity_type=customers&page=2&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.audit.lastFilter.Kind)
	assert.Equal(t, sync.ErrorKindMappingInvalid, *f.audit.lastFilter.Kind)
	require.NotNil(t, f.audit.lastFilter.EntityType)
	assert.Equal(t, sync.EntityTypeCustomers, *f.audit.lastFilter.EntityType)
	assert.Equal(t, 2, f.audit.lastFilter.Page)
	assert.Equal(t, 10, f.audit.lastFilter.PageSize)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestSyncHandler_ListErrors_UnknownKind(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/sync/errors?kind=mystery", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_ListErrors_InvalidSince(t *testing.T) {
	f := newSyncFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/sync/errors?since=yesterday", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
