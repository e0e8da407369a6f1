package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog/indexer/internal/config"
	"catalog/indexer/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrNotFound is returned when the catalog API answers 404
var ErrNotFound = errors.New("not found")

// maxRetryWait caps the wait between two attempts of the same request
const maxRetryWait = 5 * time.Second

// maxCatalogPages bounds how many HTML listing pages are followed for one source
const maxCatalogPages = 500

// CatalogClient fetches catalog items and the category tree from the catalog service
type CatalogClient interface {
	GetItems(ctx context.Context, source string) ([]domain.Item, error)
	GetCategories(ctx context.Context, source string) ([]domain.Category, error)
	GetApplicationsInfo(ctx context.Context, namespace string) (*domain.ApplicationsInfo, error)
}

type catalogClient struct {
	rl         ratelimit.Limiter
	config     config.CatalogConfig
	baseURL    string
	timeout    time.Duration
	retryWait  time.Duration
	httpClient *resty.Client
	parser     *catalogParser
}

type itemsResponse struct {
	Items []domain.Item `json:"items"`
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type applicationsResponse struct {
	Items []json.RawMessage `json:"items"`
}

func NewCatalogClient(cfg config.CatalogConfig) CatalogClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0). // retried in fetch so every attempt passes the rate limiter
		SetHeader("Accept", "application/json, text/html;q=0.9").
		SetHeader("User-Agent", "catalog-indexer/1.0")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &catalogClient{
		rl:         rl,
		config:     cfg,
		baseURL:    baseURL,
		timeout:    timeout,
		retryWait:  500 * time.Millisecond,
		httpClient: client,
		parser:     newCatalogParser(),
	}
}

func (c *catalogClient) GetItems(ctx context.Context, source string) ([]domain.Item, error) {
	if c.config.ItemFormat == config.ItemFormatHTML {
		return c.getItemsFromPages(ctx, source)
	}

	endpoint := fmt.Sprintf("%s/api/catalog/%s/items", c.baseURL, url.PathEscape(source))

	var resp itemsResponse
	if err := c.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch items for %s: %w", source, err)
	}

	log.Debugf("Fetched %d items for %s", len(resp.Items), source)
	return resp.Items, nil
}

func (c *catalogClient) getItemsFromPages(ctx context.Context, source string) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	next := fmt.Sprintf("%s/catalog/%s", c.baseURL, url.PathEscape(source))

	for pageNum := 1; next != ""; pageNum++ {
		if pageNum > maxCatalogPages {
			log.Warnf("⚠️ Stopping %s after %d catalog pages", source, maxCatalogPages)
			break
		}

		html, err := c.fetch(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog page %d for %s: %w", pageNum, source, err)
		}

		page, err := c.parser.ParseCatalogPage(html, next)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog page %d for %s: %w", pageNum, source, err)
		}

		items = append(items, page.Items...)
		next = page.NextURL
	}

	log.Debugf("Fetched %d items for %s from catalog pages", len(items), source)
	return items, nil
}

func (c *catalogClient) GetCategories(ctx context.Context, source string) ([]domain.Category, error) {
	endpoint := fmt.Sprintf("%s/api/catalog/%s/categories", c.baseURL, url.PathEscape(source))

	var resp categoriesResponse
	if err := c.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch categories for %s: %w", source, err)
	}

	return resp.Categories, nil
}

func (c *catalogClient) GetApplicationsInfo(ctx context.Context, namespace string) (*domain.ApplicationsInfo, error) {
	if namespace == "" {
		return &domain.ApplicationsInfo{}, nil
	}

	endpoint := fmt.Sprintf("%s/api/namespaces/%s/applications", c.baseURL, url.PathEscape(namespace))

	var resp applicationsResponse
	if err := c.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch applications for %s: %w", namespace, err)
	}

	return &domain.ApplicationsInfo{
		Namespace: namespace,
		Loaded:    true,
		AppExists: len(resp.Items) > 0,
	}, nil
}

func (c *catalogClient) fetchJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	return nil
}

// retryableError marks failures worth another attempt: transport errors, 429 and 5xx
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// fetch performs a GET with up to MaxRetries extra attempts and doubling waits capped at
// maxRetryWait. Each attempt waits for the rate limiter.
func (c *catalogClient) fetch(ctx context.Context, endpoint string) (string, error) {
	wait := c.retryWait

	for attempt := 0; ; attempt++ {
		body, err := c.fetchOnce(ctx, endpoint)

		var retryable *retryableError
		if err == nil || !errors.As(err, &retryable) || attempt >= c.config.MaxRetries {
			return body, err
		}

		log.Debugf("Retrying %s in %v (attempt %d): %v", endpoint, wait, attempt+1, err)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		case <-time.After(wait):
		}

		wait = min(wait*2, maxRetryWait)
	}
}

func (c *catalogClient) fetchOnce(ctx context.Context, endpoint string) (string, error) {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(endpoint)

	if err != nil {
		// Check if this is a context cancellation from the parent context
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", &retryableError{fmt.Errorf("failed to fetch URL: %w", err)}
	}

	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}

	if resp.IsError() {
		err := fmt.Errorf("HTTP error: %s", resp.Status())
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
			return "", &retryableError{err}
		}
		return "", err
	}

	return resp.String(), nil
}
