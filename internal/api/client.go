// Package api is a client for the tuition API the calculators consume.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Endpoint paths.
const (
	PathUniversitySearch = "/api/university_search/"
	PathMajors           = "/api/majors/"
	PathAid              = "/api/aid/"
	PathCalculate        = "/api/calculate/"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.Status, e.Body)
}

// Client talks to one tuition API base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. The current http.Client is copied
// so a client passed through WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New returns a client rooted at baseURL (scheme and host, optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q: scheme and host required", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL reports the root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

// SearchUniversities queries universities by name.
func (c *Client) SearchUniversities(ctx context.Context, query string) (UniversitySearch, error) {
	var out UniversitySearch
	err := c.get(ctx, PathUniversitySearch, url.Values{"query": {query}}, &out)
	return out, err
}

// Majors lists majors of a department at a university.
func (c *Client) Majors(ctx context.Context, university, department string) (MajorList, error) {
	var out MajorList
	err := c.get(ctx, PathMajors, url.Values{
		"university": {university},
		"department": {department},
	}, &out)
	return out, err
}

// Aid lists the aid packages applicable to a university.
func (c *Client) Aid(ctx context.Context, university string) (AidList, error) {
	var out AidList
	err := c.get(ctx, PathAid, url.Values{"university": {university}}, &out)
	return out, err
}

// Calculate prices a university/major/aid combination.
func (c *Client) Calculate(ctx context.Context, p CalculateParams) (Quote, error) {
	q := url.Values{
		"university": {p.University},
		"major":      {p.Major},
		"outstate":   {strconv.FormatBool(p.OutOfState)},
	}
	if p.Aid != nil {
		q.Set("aid", *p.Aid)
	}
	var out Quote
	err := c.get(ctx, PathCalculate, q, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}
