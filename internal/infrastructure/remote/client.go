package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fabworks/backend/internal/domain/sync"
)

// maxResponseSize is the maximum allowed response size from the remote API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// errRemoteNotFound marks HTTP 404 so deletes can treat a missing remote
// record as already gone
var errRemoteNotFound = errors.New("remote: not found")

// Config holds the remote API connection settings
type Config struct {
	BaseURL        string
	Token          string
	TimeoutSeconds int
	PageSize       int
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("remote: base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("remote: invalid base URL: %w", err)
	}
	if c.Token == "" {
		return fmt.Errorf("remote: bearer token is required")
	}
	return nil
}

// Client calls the remote accounting/payroll REST API. It performs the network
// call only; classification of failures happens here, retries and local writes
// happen in the callers.
type Client struct {
	config     *Config
	httpClient *http.Client
}

var _ sync.Client = (*Client)(nil)

// NewClient creates a remote API client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

// entityPath maps an entity type to its remote collection path
func entityPath(entityType sync.EntityType) (string, error) {
	switch entityType {
	case sync.EntityTypeAccounts:
		return "accounts", nil
	case sync.EntityTypeCustomers:
		return "contacts", nil
	case sync.EntityTypeProjects:
		return "projects", nil
	case sync.EntityTypeSalesDocuments:
		return "sales-documents", nil
	case sync.EntityTypePurchaseOrders:
		return "purchase-orders", nil
	case sync.EntityTypeStockItems:
		return "items", nil
	case sync.EntityTypePayrollItems:
		return "payroll/pay-items", nil
	default:
		return "", sync.ErrInvalidEntityType
	}
}

// ---------------------------------------------------------------------------
// List / fetch
// ---------------------------------------------------------------------------

// listResponse is the remote list endpoint envelope
type listResponse struct {
	Records    []recordEnvelope `json:"records"`
	NextCursor string           `json:"next_cursor"`
}

// recordEnvelope is one remote record: the typed header fields plus whatever
// else the remote returns, kept raw for the payload
type recordEnvelope struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FetchPage lists records of one entity type modified at or after modifiedSince
func (c *Client) FetchPage(ctx context.Context, entityType sync.EntityType, modifiedSince time.Time, cursor string) (*sync.Page, error) {
	path, err := entityPath(entityType)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if !modifiedSince.IsZero() {
		query.Set("modified_since", modifiedSince.UTC().Format(time.RFC3339))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if c.config.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(c.config.PageSize))
	}

	body, err := c.doRequest(ctx, http.MethodGet, path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrRemoteInvalidResponse, err)
	}

	// Decode each record twice: once into the typed header, once into the raw
	// payload map the mappers read from. UseNumber keeps monetary fields as
	// json.Number so decimal conversion stays string-exact.
	var raw struct {
		Records []map[string]any `json:"records"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrRemoteInvalidResponse, err)
	}

	page := &sync.Page{
		Records:    make([]sync.RemoteRecord, 0, len(resp.Records)),
		NextCursor: resp.NextCursor,
	}
	for i, env := range resp.Records {
		rec := sync.RemoteRecord{
			RemoteID:    env.ID,
			EntityType:  entityType,
			DisplayName: env.Name,
			Email:       env.Email,
			ModifiedAt:  env.ModifiedAt,
		}
		if i < len(raw.Records) {
			rec.Payload = raw.Records[i]
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", sync.ErrRemoteInvalidResponse, err)
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

// ---------------------------------------------------------------------------
// Push / void
// ---------------------------------------------------------------------------

// pushResponse is the remote create/update envelope
type pushResponse struct {
	ID string `json:"id"`
}

// Push creates a remote record (empty remoteID) or updates one in place
func (c *Client) Push(ctx context.Context, entityType sync.EntityType, payload map[string]any, remoteID string) (string, error) {
	path, err := entityPath(entityType)
	if err != nil {
		return "", err
	}

	method := http.MethodPost
	if remoteID != "" {
		method = http.MethodPut
		path = path + "/" + url.PathEscape(remoteID)
	}

	body, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return "", err
	}

	var resp pushResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", sync.ErrRemoteInvalidResponse, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: push response missing id", sync.ErrRemoteInvalidResponse)
	}
	if remoteID != "" && resp.ID != remoteID {
		return "", fmt.Errorf("%w: update returned id %s for %s", sync.ErrRemoteInvalidResponse, resp.ID, remoteID)
	}
	return resp.ID, nil
}

// Void marks a remote record as voided
func (c *Client) Void(ctx context.Context, entityType sync.EntityType, remoteID string) error {
	path, err := entityPath(entityType)
	if err != nil {
		return err
	}
	if remoteID == "" {
		return fmt.Errorf("%w: void requires a remote id", sync.ErrRemoteRejected)
	}
	_, err = c.doRequest(ctx, http.MethodPost, path+"/"+url.PathEscape(remoteID)+"/void", nil)
	return err
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// doRequest performs one authenticated request against the remote API and
// classifies the outcome into the sentinel remote errors.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("remote: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/v1/" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: HTTP 429", sync.ErrRemoteRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", sync.ErrRemoteAuth, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", sync.ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", sync.ErrRemoteRejected, errRemoteNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d: %s", sync.ErrRemoteRejected, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

// truncate bounds an error detail taken from a response body
func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
