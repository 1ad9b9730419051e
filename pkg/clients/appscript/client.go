package appscript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/imscloud/ims/internal/config"
)

// Client exposes the read actions of a deployed Apps Script web app.
type Client interface {
	Fetch(ctx context.Context, action string) ([]map[string]any, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
	now        func() time.Time
}

// NewClient builds an Apps Script client using the provided configuration values.
func NewClient(cfg config.AppsScriptConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.URL,
		now:        time.Now,
	}
}

// Fetch runs a GET action and decodes the JSON array of objects it returns. The
// timestamp parameter defeats intermediate caches.
func (c *APIClient) Fetch(ctx context.Context, action string) ([]map[string]any, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("action", action).
		SetQueryParam("_", strconv.FormatInt(c.now().UnixMilli(), 10)).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("apps script %s: %w", action, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("apps script %s: unexpected status %d", action, resp.StatusCode())
	}

	var rows []map[string]any
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("apps script %s: decode response: %w", action, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}
