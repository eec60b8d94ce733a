// Package dummyjson is the HTTP client for the dummyjson.com product API.
package dummyjson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Client implements domain.CatalogSource, domain.AccountSource and
// domain.AdminSource against dummyjson.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	backoff     time.Duration
}

// NewClient creates a throttled client.
// limit: outbound requests per second, burst: token bucket size.
func NewClient(baseURL string, timeout time.Duration, limit rate.Limit, burst int) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:     rate.NewLimiter(limit, burst),
		maxAttempts: 3,
		backoff:     time.Second,
	}
}

// SetRetryPolicy overrides the default of 3 attempts with 1s linear backoff.
func (c *Client) SetRetryPolicy(attempts int, backoff time.Duration) {
	if attempts < 1 {
		attempts = 1
	}
	c.maxAttempts = attempts
	c.backoff = backoff
}

func (c *Client) ListProducts(ctx context.Context, limit, skip int) (*domain.ProductList, error) {
	var out remoteProductList
	if err := c.get(ctx, "list products", "/products", pageQuery(limit, skip), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var out remoteProduct
	if err := c.get(ctx, "get product", "/products/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, notFound(err, domain.ErrProductNotFound, "product", id)
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, slug string) (*domain.ProductList, error) {
	var out remoteProductList
	if err := c.get(ctx, "products by category", "/products/category/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) (*domain.ProductList, error) {
	q := url.Values{}
	q.Set("q", query)

	var out remoteProductList
	if err := c.get(ctx, "search products", "/products/search", q, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// Categories accepts either a list of strings or a list of {slug,name,url}
// objects. Elements of any other shape are coerced to strings.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var raw []json.RawMessage
	if err := c.get(ctx, "categories", "/products/categories", nil, &raw); err != nil {
		return nil, err
	}

	cats := make([]domain.Category, 0, len(raw))
	for _, item := range raw {
		cat, nerr := normalizeCategory(item)
		if nerr != nil {
			logger.WithContext(ctx).Warn().Err(nerr).Msg("Category normalized")
		}
		if cat.Name == "" && cat.Slug == "" {
			continue
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func normalizeCategory(item json.RawMessage) (domain.Category, error) {
	var name string
	if err := json.Unmarshal(item, &name); err == nil {
		return domain.Category{Name: name, Slug: utils.Slugify(name)}, nil
	}

	var obj remoteCategory
	if err := json.Unmarshal(item, &obj); err == nil && (obj.Name != "" || obj.Slug != "") {
		cat := domain.Category{Name: obj.Name, Slug: obj.Slug}
		if cat.Name == "" {
			cat.Name = obj.Slug
		}
		if cat.Slug == "" {
			cat.Slug = utils.Slugify(cat.Name)
		}
		return cat, nil
	}

	coerced := strings.Trim(strings.TrimSpace(string(item)), `"`)
	return domain.Category{Name: coerced, Slug: utils.Slugify(coerced)},
		&domain.NormalizationError{Field: "category", Raw: string(item)}
}

// request is one outbound call. Body is JSON-encoded when non-nil.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	token  string
}

// get performs a GET with throttling and retries.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	return c.send(ctx, request{op: op, method: http.MethodGet, path: path, query: query}, out)
}

// send throttles every call. Transport errors, 429 and 5xx are retried for
// idempotent methods only; POST is attempted once.
func (c *Client) send(ctx context.Context, rq request, out interface{}) error {
	target := c.baseURL + rq.path
	if len(rq.query) > 0 {
		target += "?" + rq.query.Encode()
	}

	var payload []byte
	if rq.body != nil {
		var err error
		if payload, err = json.Marshal(rq.body); err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", rq.op, err)
		}
	}

	attempts := c.maxAttempts
	if rq.method == http.MethodPost {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return &domain.RemoteError{Op: rq.op, Err: err}
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.RemoteError{Op: rq.op, Err: err}
		}

		status, retry, err := c.do(ctx, rq, target, payload, out)
		if err == nil {
			return nil
		}
		lastErr = &domain.RemoteError{Op: rq.op, StatusCode: status, Err: err}
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, rq request, target string, payload []byte, out interface{}) (status int, retry bool, err error) {
	start := time.Now()
	defer func() {
		logger.RemoteCall(ctx, rq.op, rq.method, target, status, time.Since(start), err)
	}()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, rq.method, target, body)
	if err != nil {
		return 0, false, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rq.token != "" {
		req.Header.Set("Authorization", "Bearer "+rq.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return resp.StatusCode, retry, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return resp.StatusCode, false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, false, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, false, nil
}

// remoteStatus reports the HTTP status of a failed remote call, or 0.
func remoteStatus(err error) int {
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
