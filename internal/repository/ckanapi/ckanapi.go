// Package ckanapi implements the record repository against a CKAN-style
// action API. Every operation is a POST of a JSON payload to
// /api/3/action/{action}; responses arrive in the standard envelope with
// success, result, and error fields. Transient failures are retried with
// backoff before they surface as errors.
package ckanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/openfield/gleaner/pkg/constants"
	"github.com/openfield/gleaner/pkg/errors"
	"github.com/openfield/gleaner/pkg/record"
)

// CKAN action names used by the repository.
const (
	actionShow   = "package_show"
	actionCreate = "package_create"
	actionUpdate = "package_update"
	actionDelete = "package_delete"
	actionSearch = "package_search"
)

// Config holds the connection settings for a CKAN action API.
type Config struct {
	// BaseURL is the portal root, e.g. https://catalog.example.org
	BaseURL string

	// APIKey is sent in the Authorization header when set. Write
	// actions fail without one on any real portal.
	APIKey string

	// Timeout bounds each attempt; zero uses the default HTTP timeout.
	Timeout time.Duration

	// MaxRetries bounds retry attempts on transient failures; zero uses
	// the default retry budget.
	MaxRetries int
}

// Client is the CKAN-backed record.Repository.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
}

var _ record.Repository = (*Client)(nil)

// New creates a repository client for the portal at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.NewValidationError("base_url", "", "portal base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = constants.MaxRetries
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = constants.RetryBackoff
	rc.RetryWaitMax = constants.MaxRetryBackoff
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		http:   rc.StandardClient(),
	}, nil
}

// envelope is the CKAN action API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   struct {
		Message string `json:"message"`
		Type    string `json:"__type"`
	} `json:"error"`
}

// APIError is a CKAN action that the portal rejected.
type APIError struct {
	Action     string
	Type       string
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s failed: %s: %s", e.Action, e.Type, e.Message)
	}
	return fmt.Sprintf("%s failed (status %d): %s", e.Action, e.StatusCode, e.Message)
}

// Is maps CKAN error types onto the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch e.Type {
	case "Not Found Error":
		return target == errors.ErrNotFound
	case "Validation Error":
		return target == errors.ErrInvalidInput
	}
	return false
}

func (c *Client) actionURL(action string) string {
	return c.base + "/api/3/action/" + action
}

// call posts a payload to an action and decodes the envelope's result into
// out when out is non-nil.
func (c *Client) call(ctx context.Context, action string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapParse("json", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.actionURL(action), bytes.NewReader(body))
	if err != nil {
		return errors.WrapIO("request", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapIO("post", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read response", action, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &APIError{
			Action:     action,
			Message:    "response is not an action API envelope",
			StatusCode: resp.StatusCode,
		}
	}
	if !env.Success {
		return &APIError{
			Action:     action,
			Type:       env.Error.Type,
			Message:    env.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return errors.WrapParse("json", action, err)
		}
	}
	return nil
}

// liftIdentifier copies the identifier extra into the Identifier field for
// datasets read back from the portal, where the field round-trips as an
// extra.
func liftIdentifier(ds *record.Dataset) {
	if ds.Identifier != "" {
		return
	}
	if v, ok := ds.Extra("identifier"); ok {
		ds.Identifier = v
	}
}

// Show returns a dataset by ID or name.
func (c *Client) Show(ctx context.Context, id string) (*record.Dataset, error) {
	var ds record.Dataset
	if err := c.call(ctx, actionShow, map[string]string{"id": id}, &ds); err != nil {
		return nil, err
	}
	liftIdentifier(&ds)
	return &ds, nil
}

// Create stores a new dataset and returns the portal's version of it.
func (c *Client) Create(ctx context.Context, ds *record.Dataset) (*record.Dataset, error) {
	var out record.Dataset
	if err := c.call(ctx, actionCreate, ds, &out); err != nil {
		return nil, err
	}
	liftIdentifier(&out)
	return &out, nil
}

// Update replaces the dataset under its ID and returns the portal's
// version of it.
func (c *Client) Update(ctx context.Context, ds *record.Dataset) (*record.Dataset, error) {
	var out record.Dataset
	if err := c.call(ctx, actionUpdate, ds, &out); err != nil {
		return nil, err
	}
	liftIdentifier(&out)
	return &out, nil
}

// Delete soft-deletes the dataset with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, actionDelete, map[string]string{"id": id}, nil)
}

// searchResult is the package_search result payload.
type searchResult struct {
	Count   int               `json:"count"`
	Results []*record.Dataset `json:"results"`
}

// FindByIdentifier searches active datasets whose identifier extra matches.
func (c *Client) FindByIdentifier(ctx context.Context, identifier string) ([]*record.Dataset, error) {
	payload := map[string]any{
		"fq":   fmt.Sprintf("identifier:%q", identifier),
		"rows": constants.MaxPageSize,
	}
	var res searchResult
	if err := c.call(ctx, actionSearch, payload, &res); err != nil {
		return nil, err
	}
	for _, ds := range res.Results {
		liftIdentifier(ds)
	}
	return res.Results, nil
}
