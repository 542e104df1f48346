package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StorageClient talks to the Supabase object storage endpoint.
type StorageClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// StorageOption configures the StorageClient.
type StorageOption func(*StorageClient)

// WithStorageHTTPClient overrides the default HTTP client.
func WithStorageHTTPClient(hc *http.Client) StorageOption {
	return func(c *StorageClient) {
		c.client = hc
	}
}

// NewStorageClient creates a storage client for the given Supabase project.
func NewStorageClient(baseURL, apiKey string, opts ...StorageOption) *StorageClient {
	c := &StorageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name string `json:"name"`
}

// Upload stores an object under bucket/path, overwriting any existing object
// at that path, and returns its public URL.
func (c *StorageClient) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.objectURL(bucket, path), r,
	)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("x-upsert", "true")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := c.execute(req, nil); err != nil {
		return "", fmt.Errorf("uploading %s/%s: %w", bucket, path, err)
	}
	return c.PublicURL(bucket, path), nil
}

// PublicURL returns the public download URL for an object.
func (c *StorageClient) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + strings.TrimLeft(path, "/")
}

// List returns the objects under the given prefix in a bucket.
func (c *StorageClient) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	payload, err := json.Marshal(map[string]string{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("marshaling list payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/storage/v1/object/list/"+bucket,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("creating list request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	var objects []ObjectInfo
	if err := c.execute(req, &objects); err != nil {
		return nil, fmt.Errorf("listing %s/%s: %w", bucket, prefix, err)
	}
	return objects, nil
}

// Remove deletes the given object paths from a bucket.
func (c *StorageClient) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("marshaling remove payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete,
		c.baseURL+"/storage/v1/object/"+bucket,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("creating remove request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	if err := c.execute(req, nil); err != nil {
		return fmt.Errorf("removing objects from %s: %w", bucket, err)
	}
	return nil
}

func (c *StorageClient) objectURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/" + bucket + "/" + strings.TrimLeft(path, "/")
}

func (c *StorageClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *StorageClient) execute(req *http.Request, dst any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("storage API error (status %d): %s", resp.StatusCode, string(body))
	}

	if dst != nil && len(body) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
