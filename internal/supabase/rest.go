package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go2hand/go2hand/internal/metrics"
)

const tracerName = "github.com/go2hand/go2hand/internal/supabase"

// RestClient implements Client against the Supabase PostgREST endpoint.
// It is safe for concurrent use: it holds no mutable state beyond the
// underlying HTTP client's connection pool.
type RestClient struct {
	baseURL string
	apiKey  string
	schema  string
	client  *http.Client
	tracer  trace.Tracer
}

// RestOption configures the RestClient.
type RestOption func(*RestClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) RestOption {
	return func(c *RestClient) {
		c.client = hc
	}
}

// WithSchema selects a Postgres schema other than "public".
func WithSchema(schema string) RestOption {
	return func(c *RestClient) {
		c.schema = schema
	}
}

// NewRestClient creates a client for the given Supabase project URL and
// anon/service key. The client is created once at startup and lives for the
// process lifetime.
func NewRestClient(baseURL, apiKey string, opts ...RestOption) *RestClient {
	c := &RestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		schema:  "public",
		client:  &http.Client{Timeout: 30 * time.Second},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select implements Client.Select.
func (c *RestClient) Select(ctx context.Context, req SelectRequest) (*SelectResult, error) {
	ctx, span := c.startSpan(ctx, "select", req.Table)
	defer span.End()

	u := c.tableURL(req.Table) + "?" + req.query().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating select request: %w", err)
	}
	c.setHeaders(httpReq)

	if req.Count {
		httpReq.Header.Set("Prefer", "count=exact")
	}
	if req.Range != nil {
		httpReq.Header.Set("Range-Unit", "items")
		httpReq.Header.Set("Range", req.Range.header())
	}

	body, header, err := c.do(httpReq, "select")
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing select response: %w", err)
	}

	total := len(rows)
	if req.Count {
		if n, ok := parseContentRangeTotal(header.Get("Content-Range")); ok {
			total = n
		}
	}

	return &SelectResult{Rows: rows, Total: total}, nil
}

// InsertRow implements Client.InsertRow.
func (c *RestClient) InsertRow(ctx context.Context, table string, fields map[string]any) (json.RawMessage, error) {
	ctx, span := c.startSpan(ctx, "insert", table)
	defer span.End()

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling insert payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("creating insert request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "return=representation")

	body, _, err := c.do(httpReq, "insert")
	if err != nil {
		return nil, err
	}

	// PostgREST wraps the representation in a one-element array.
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing insert response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no representation", table)
	}
	return rows[0], nil
}

// UpdateByID implements Client.UpdateByID.
func (c *RestClient) UpdateByID(ctx context.Context, table, id string, fields map[string]any) error {
	ctx, span := c.startSpan(ctx, "update", table)
	defer span.End()

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshaling update payload: %w", err)
	}

	params := url.Values{}
	Eq("id", id).encode(params)

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPatch, c.tableURL(table)+"?"+params.Encode(), bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("creating update request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "return=minimal")

	_, _, err = c.do(httpReq, "update")
	return err
}

// LookupID implements Client.LookupID. A missing row is not an error.
func (c *RestClient) LookupID(ctx context.Context, table, column, value string) (string, error) {
	res, err := c.Select(ctx, SelectRequest{
		Table:   table,
		Columns: "id",
		Filters: []Filter{Eq(column, value)},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}
	if len(res.Rows) == 0 {
		return "", nil
	}

	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Rows[0], &row); err != nil {
		return "", fmt.Errorf("parsing lookup response: %w", err)
	}
	return row.ID, nil
}

func (c *RestClient) tableURL(table string) string {
	return c.baseURL + "/rest/v1/" + table
}

func (c *RestClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.schema != "public" {
		req.Header.Set("Accept-Profile", c.schema)
		req.Header.Set("Content-Profile", c.schema)
	}
}

// do executes the request, records metrics, and returns the response body.
// Any non-2xx status is an error.
func (c *RestClient) do(req *http.Request, operation string) ([]byte, http.Header, error) {
	metrics.BackendRequestsTotal.WithLabelValues(operation).Inc()
	start := time.Now()

	resp, err := c.client.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues(operation).Inc()
		return nil, nil, fmt.Errorf("executing %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues(operation).Inc()
		return nil, nil, fmt.Errorf("reading %s response body: %w", operation, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.BackendErrorsTotal.WithLabelValues(operation).Inc()
		return nil, nil, fmt.Errorf(
			"supabase %s error (status %d): %s", operation, resp.StatusCode, string(body),
		)
	}

	return body, resp.Header, nil
}

func (c *RestClient) startSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "supabase."+operation, trace.WithAttributes(
		attribute.String("db.table", table),
		attribute.String("db.operation", operation),
	))
}

// parseContentRangeTotal extracts the total from a PostgREST Content-Range
// header such as "0-19/134" or "*/0".
func parseContentRangeTotal(header string) (int, bool) {
	_, totalPart, found := strings.Cut(header, "/")
	if !found || totalPart == "*" {
		return 0, false
	}
	n, err := strconv.Atoi(totalPart)
	if err != nil {
		return 0, false
	}
	return n, true
}
