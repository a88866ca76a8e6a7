// Package client is the data layer used by operator tooling. It wraps the
// JSON API, caches reads per path and drops cached entries after mutations.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"avotrade/internal/domain"
	"avotrade/internal/search"
	"avotrade/internal/services"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s %v", e.Status, e.Message, e.Fields)
}

// StatusOf returns the HTTP status behind err, or 0 when err is not an *APIError.
func StatusOf(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

const (
	enquiriesPath = "/api/enquiries"
	productsPath  = "/api/products"
	analyticsPath = "/api/analytics"
	newsPath      = "/api/market/news"
)

type Client struct {
	tr Transport

	mu    sync.Mutex
	token string
	cache map[string][]byte
}

func New(tr Transport) *Client {
	return &Client{tr: tr, cache: map[string][]byte{}}
}

func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
}

// Invalidate drops cached reads whose path starts with any prefix; no prefix clears everything.
func (c *Client) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(prefixes) == 0 {
		c.cache = map[string][]byte{}
		return
	}
	for k := range c.cache {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				delete(c.cache, k)
				break
			}
		}
	}
}

func (c *Client) headers() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := map[string]string{"Accept": "application/json"}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}
	status, resp, err := c.tr.Do(ctx, method, path, body, c.headers())
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if status < 200 || status > 299 {
		apiErr := &APIError{Status: status}
		var e struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(resp, &e) == nil {
			apiErr.Message, apiErr.Fields = e.Error, e.Fields
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}
	if out == nil || len(resp) == 0 {
		return nil
	}
	return json.Unmarshal(resp, out)
}

// get serves path from the cache when possible.
func (c *Client) get(ctx context.Context, path string, out any) error {
	c.mu.Lock()
	cached, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(cached, out)
	}

	var raw json.RawMessage
	if err := c.send(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return err
	}
	c.mu.Lock()
	c.cache[path] = raw
	c.mu.Unlock()
	return json.Unmarshal(raw, out)
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// Login exchanges operator credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (time.Time, error) {
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/admin/login", map[string]string{"username": username, "password": password}, &out); err != nil {
		return time.Time{}, err
	}
	c.SetToken(out.Token)
	c.Invalidate()
	return out.ExpiresAt, nil
}

func (c *Client) SubmitEnquiry(ctx context.Context, in services.EnquiryInput) (domain.Enquiry, error) {
	var out struct {
		Enquiry domain.Enquiry `json:"enquiry"`
	}
	if err := c.send(ctx, http.MethodPost, enquiriesPath, in, &out); err != nil {
		return domain.Enquiry{}, err
	}
	c.Invalidate(enquiriesPath, analyticsPath)
	return out.Enquiry, nil
}

type EnquiryQuery struct {
	Limit  int
	Status string
	Search string
}

func (c *Client) Enquiries(ctx context.Context, q EnquiryQuery) ([]domain.Enquiry, error) {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set(search.Param, q.Search)
	}
	var out struct {
		Enquiries []domain.Enquiry `json:"enquiries"`
	}
	if err := c.get(ctx, withQuery(enquiriesPath, v), &out); err != nil {
		return nil, err
	}
	return out.Enquiries, nil
}

func (c *Client) Enquiry(ctx context.Context, id int64) (domain.Enquiry, error) {
	var out struct {
		Enquiry domain.Enquiry `json:"enquiry"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/%d", enquiriesPath, id), &out); err != nil {
		return domain.Enquiry{}, err
	}
	return out.Enquiry, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.EnquiryStatus) (domain.Enquiry, error) {
	var out struct {
		Enquiry domain.Enquiry `json:"enquiry"`
	}
	err := c.send(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", enquiriesPath, id), map[string]string{"status": string(status)}, &out)
	if err != nil {
		return domain.Enquiry{}, err
	}
	c.Invalidate(enquiriesPath, analyticsPath)
	return out.Enquiry, nil
}

func (c *Client) DeleteEnquiry(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", enquiriesPath, id), nil, nil); err != nil {
		return err
	}
	c.Invalidate(enquiriesPath, analyticsPath)
	return nil
}

func (c *Client) Products(ctx context.Context, category, term string) ([]domain.Product, error) {
	v := url.Values{}
	if category != "" {
		v.Set("category", category)
	}
	if term != "" {
		v.Set(search.Param, term)
	}
	var out struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.get(ctx, withQuery(productsPath, v), &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) Product(ctx context.Context, slug string) (domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	if err := c.get(ctx, productsPath+"/"+url.PathEscape(slug), &out); err != nil {
		return domain.Product{}, err
	}
	return out.Product, nil
}

func (c *Client) CreateProduct(ctx context.Context, in services.ProductInput) (domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	if err := c.send(ctx, http.MethodPost, productsPath, in, &out); err != nil {
		return domain.Product{}, err
	}
	c.Invalidate(productsPath)
	return out.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", productsPath, id), nil, nil); err != nil {
		return err
	}
	c.Invalidate(productsPath)
	return nil
}

func (c *Client) News(ctx context.Context, term string) ([]domain.MarketNews, error) {
	v := url.Values{}
	if term != "" {
		v.Set(search.Param, term)
	}
	var out struct {
		News []domain.MarketNews `json:"news"`
	}
	if err := c.get(ctx, withQuery(newsPath, v), &out); err != nil {
		return nil, err
	}
	return out.News, nil
}

func (c *Client) TrackVisit(ctx context.Context, path, userAgent string) error {
	body := map[string]any{"path": path}
	if userAgent != "" {
		body["userAgent"] = userAgent
	}
	if err := c.send(ctx, http.MethodPost, "/api/track-visit", body, nil); err != nil {
		return err
	}
	c.Invalidate(analyticsPath)
	return nil
}

func (c *Client) Stats(ctx context.Context, days int) (domain.VisitStats, error) {
	v := url.Values{}
	if days > 0 {
		v.Set("days", strconv.Itoa(days))
	}
	var out domain.VisitStats
	if err := c.get(ctx, withQuery(analyticsPath+"/stats", v), &out); err != nil {
		return domain.VisitStats{}, err
	}
	return out, nil
}
