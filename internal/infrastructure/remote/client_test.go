package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/payroll"
	"github.com/fabworks/backend/internal/domain/sync"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:  server.URL,
		Token:    "test-token",
		PageSize: 50,
	})
	require.NoError(t, err)
	return client, server
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &Config{BaseURL: "https://api.example.com", Token: "tok"},
		},
		{
			name:    "missing base URL",
			config:  &Config{Token: "tok"},
			wantErr: true,
		},
		{
			name:    "missing token",
			config:  &Config{BaseURL: "https://api.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_FetchPage(t *testing.T) {
	modifiedSince := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-01-10T00:00:00Z", r.URL.Query().Get("modified_since"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))

		json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{
				{
					"id":          "C-100",
					"name":        "Acme Ltd",
					"email":       "accounts@acme.example",
					"modified_at": "2026-01-11T08:00:00Z",
					"phone":       "555-0100",
				},
			},
			"next_cursor": "page-2",
		})
	})

	page, err := client.FetchPage(context.Background(), sync.EntityTypeCustomers, modifiedSince, "")
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.True(t, page.HasMore())
	assert.Equal(t, "page-2", page.NextCursor)

	rec := page.Records[0]
	assert.Equal(t, "C-100", rec.RemoteID)
	assert.Equal(t, sync.EntityTypeCustomers, rec.EntityType)
	assert.Equal(t, "Acme Ltd", rec.DisplayName)
	assert.Equal(t, "accounts@acme.example", rec.Email)
	assert.Equal(t, "555-0100", rec.Payload["phone"])
}

func TestClient_FetchPage_PayloadNumbersStayExact(t *testing.T) {
	// More fractional digits than float64 can hold; the payload must carry the
	// literal through as json.Number, not a rounded float.
	const unitCost = "12345.678901234567891"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"records": [{
				"id": "S-1",
				"name": "M8 bolt",
				"modified_at": "2026-01-11T08:00:00Z",
				"unit_cost": %s
			}],
			"next_cursor": ""
		}`, unitCost)
	})

	page, err := client.FetchPage(context.Background(), sync.EntityTypeStockItems, time.Time{}, "")
	require.NoError(t, err)
	require.Len(t, page.Records, 1)

	got, ok := page.Records[0].Payload["unit_cost"].(json.Number)
	require.True(t, ok)
	assert.Equal(t, unitCost, got.String())
}

func TestClient_FetchPage_LastPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "page-2", r.URL.Query().Get("cursor"))
		json.NewEncoder(w).Encode(map[string]any{
			"records":     []map[string]any{},
			"next_cursor": "",
		})
	})

	page, err := client.FetchPage(context.Background(), sync.EntityTypeCustomers, time.Time{}, "page-2")
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.False(t, page.HasMore())
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, sync.ErrRemoteRateLimited},
		{"server error", http.StatusInternalServerError, sync.ErrRemoteUnavailable},
		{"bad gateway", http.StatusBadGateway, sync.ErrRemoteUnavailable},
		{"unauthorized", http.StatusUnauthorized, sync.ErrRemoteAuth},
		{"forbidden", http.StatusForbidden, sync.ErrRemoteAuth},
		{"validation rejection", http.StatusUnprocessableEntity, sync.ErrRemoteRejected},
		{"bad request", http.StatusBadRequest, sync.ErrRemoteRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FetchPage(context.Background(), sync.EntityTypeProjects, time.Time{}, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_ErrorClassification_NetworkFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.FetchPage(context.Background(), sync.EntityTypeProjects, time.Time{}, "")
	assert.ErrorIs(t, err, sync.ErrRemoteUnavailable)
}

func TestClient_Push(t *testing.T) {
	t.Run("Create without remote id", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/sales-documents", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "INV-0042", body["number"])

			json.NewEncoder(w).Encode(map[string]any{"id": "D-1"})
		})

		id, err := client.Push(context.Background(), sync.EntityTypeSalesDocuments,
			map[string]any{"number": "INV-0042"}, "")
		require.NoError(t, err)
		assert.Equal(t, "D-1", id)
	})

	t.Run("Update with remote id uses PUT", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/v1/sales-documents/D-1", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"id": "D-1"})
		})

		id, err := client.Push(context.Background(), sync.EntityTypeSalesDocuments,
			map[string]any{"number": "INV-0042"}, "D-1")
		require.NoError(t, err)
		assert.Equal(t, "D-1", id)
	})

	t.Run("Update returning a different id is invalid", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": "D-other"})
		})

		_, err := client.Push(context.Background(), sync.EntityTypeSalesDocuments,
			map[string]any{}, "D-1")
		assert.ErrorIs(t, err, sync.ErrRemoteInvalidResponse)
	})
}

func TestClient_Void(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sales-documents/D-1/void", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	err := client.Void(context.Background(), sync.EntityTypeSalesDocuments, "D-1")
	assert.NoError(t, err)
}

func TestClient_ResolvePayPeriod(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payroll/pay-periods", r.URL.Path)
		assert.Equal(t, "2026-03-05", r.URL.Query().Get("date"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "PP-7",
			"start_date": "2026-03-02",
			"end_date":   "2026-03-08",
			"status":     "DRAFT",
		})
	})

	period, err := client.ResolvePayPeriod(context.Background(),
		time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PP-7", period.RemoteID)
	assert.Equal(t, payroll.PayPeriodDraft, period.Status)
	assert.False(t, period.Locked())
	assert.True(t, period.Contains(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestClient_PostAndDeleteTimesheet(t *testing.T) {
	weekEnding := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("Post addresses the staff-week", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/v1/payroll/timesheets/S-9/2026-03-08", r.URL.Path)

			var body struct {
				Entries []map[string]any `json:"entries"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body.Entries, 1)
			assert.Equal(t, "7.5", body.Entries[0]["hours"])

			w.WriteHeader(http.StatusOK)
		})

		entries := []payroll.TimeEntry{{
			Date:           time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			Hours:          decimal.RequireFromString("7.5"),
			JobCode:        "JOB-1",
			Classification: payroll.JobWork,
		}}
		err := client.PostTimesheet(context.Background(), "S-9", weekEnding, entries)
		assert.NoError(t, err)
	})

	t.Run("Delete of an empty week is a no-op", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.DeleteTimesheet(context.Background(), "S-9", weekEnding)
		assert.NoError(t, err)
	})
}

func TestClient_PostAndDeleteLeave(t *testing.T) {
	weekEnding := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("Post sends the merged period", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payroll/leave/S-9", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "annual_leave", body["type"])
			assert.Equal(t, "2026-03-02", body["start_date"])
			assert.Equal(t, "2026-03-04", body["end_date"])
			assert.Equal(t, "24", body["total_hours"])

			w.WriteHeader(http.StatusOK)
		})

		err := client.PostLeave(context.Background(), "S-9", payroll.LeavePeriod{
			Classification: payroll.JobAnnualLeave,
			StartDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			TotalHours:     decimal.NewFromInt(24),
		})
		assert.NoError(t, err)
	})

	t.Run("Delete of an empty week is a no-op", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2026-03-08", r.URL.Query().Get("week_ending"))
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.DeleteLeave(context.Background(), "S-9", weekEnding)
		assert.NoError(t, err)
	})
}
