// Package client implements gallery.Collection over the collection REST
// resources served by the backend.
package client

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

	"heritage-gallery/internal/gallery"
)

// Collection talks to one resource, e.g. /artworks/.
type Collection struct {
	base     *url.URL
	resource string
	token    string
	http     *http.Client
}

var _ gallery.Collection = (*Collection)(nil)

type Option func(*Collection)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Collection) { c.token = strings.TrimSpace(token) }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Collection) { c.http = hc }
}

func New(baseURL, resource string, opts ...Option) (*Collection, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	resource = strings.Trim(resource, "/")
	if resource == "" {
		return nil, fmt.Errorf("resource is required")
	}

	c := &Collection{base: u, resource: resource, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Count   int              `json:"count"`
	Next    *string          `json:"next"`
	Results []gallery.Record `json:"results"`
}

func (c *Collection) List(ctx context.Context, q gallery.Query) (gallery.Page, error) {
	params := url.Values{}
	setIf(params, "search", strings.TrimSpace(q.Search))
	setIf(params, "category", q.Category)
	setIf(params, "ordering", q.Ordering)
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, c.collectionURL(params), nil, "", &out); err != nil {
		return gallery.Page{}, err
	}

	page := gallery.Page{Count: out.Count, Results: out.Results}
	if out.Next != nil {
		page.Next = *out.Next
	}
	return page, nil
}

func (c *Collection) Create(ctx context.Context, p gallery.Patch) (gallery.Record, error) {
	body, contentType, err := encodePatch(p)
	if err != nil {
		return gallery.Record{}, err
	}
	var out gallery.Record
	if err := c.do(ctx, http.MethodPost, c.collectionURL(nil), body, contentType, &out); err != nil {
		return gallery.Record{}, err
	}
	return out, nil
}

func (c *Collection) Update(ctx context.Context, slug string, p gallery.Patch) (gallery.Record, error) {
	body, contentType, err := encodePatch(p)
	if err != nil {
		return gallery.Record{}, err
	}
	var out gallery.Record
	if err := c.do(ctx, http.MethodPatch, c.itemURL(slug), body, contentType, &out); err != nil {
		return gallery.Record{}, err
	}
	return out, nil
}

func (c *Collection) Delete(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(slug), nil, "", nil)
}

func (c *Collection) collectionURL(params url.Values) string {
	u := *c.base
	u.Path = u.Path + "/" + c.resource + "/"
	u.RawQuery = params.Encode()
	return u.String()
}

func (c *Collection) itemURL(slug string) string {
	u := *c.base
	u.Path = u.Path + "/" + c.resource + "/" + url.PathEscape(slug) + "/"
	return u.String()
}

func (c *Collection) do(ctx context.Context, method, target string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
