package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/resilience"
)

// DefaultURL is the public catalog the gallery seeds from.
const DefaultURL = "https://fakestoreapi.com/products"

// Config configures the catalog client. Zero Timeout and Retries mean no
// timeout and a single attempt.
type Config struct {
	URL       string
	Timeout   time.Duration
	Retries   int
	RateLimit float64
	UserAgent string
}

// Recorder receives fetch outcomes for metrics.
type Recorder interface {
	RecordCatalogFetch(outcome string, count int, duration time.Duration)
}

// Item is one entry of the remote catalog.
type Item struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// ToProduct maps a remote item into the local record shape. Markup in
// the remote title is stripped so catalog titles are plain text like
// local ones.
func (i Item) ToProduct() product.Product {
	return product.Product{
		ID:    product.CatalogID(i.ID),
		Title: product.PlainText(i.Title),
		Price: i.Price,
		Thumb: i.Image,
		Large: i.Image,
	}
}

// Client fetches the remote catalog
type Client struct {
	url      string
	resty    *resty.Client
	limiter  *rate.Limiter
	breaker  *resilience.Breaker
	status   *Status
	recorder Recorder
	logger   *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger.Named("catalog") }
}

// WithRecorder reports fetch outcomes to r
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithStatus shares an existing status indicator
func WithStatus(s *Status) Option {
	return func(c *Client) { c.status = s }
}

// WithBreaker replaces the default circuit breaker
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// NewClient creates a catalog client
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ProductGallery/1.0"
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	c := &Client{
		url:     cfg.URL,
		resty:   restyClient,
		limiter: limiter,
		status:  NewStatus(),
		logger:  zap.NewNop(),
	}
	c.breaker = resilience.New("catalog", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			c.logger.Warn("Catalog circuit breaker changed state",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the status indicator updated by Fetch
func (c *Client) Status() *Status {
	return c.status
}

// Fetch loads and maps the remote catalog. On any failure it returns an
// empty slice and sets the status to error.
func (c *Client) Fetch(ctx context.Context) []product.Product {
	c.status.Set(StateLoading, 0)
	start := time.Now()

	items, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("Catalog fetch failed", zap.String("url", c.url), zap.Error(err))
		c.status.Set(StateError, 0)
		c.record("error", 0, time.Since(start))
		return []product.Product{}
	}

	products := make([]product.Product, len(items))
	for i, item := range items {
		products[i] = item.ToProduct()
	}

	c.logger.Info("Catalog loaded", zap.Int("count", len(products)), zap.Duration("duration", time.Since(start)))
	c.status.Set(StateLoaded, len(products))
	c.record("loaded", len(products), time.Since(start))
	return products
}

func (c *Client) fetch(ctx context.Context) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var items []Item
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		resp, err := c.resty.R().SetContext(ctx).Get(c.url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("catalog returned %s", resp.Status())
		}
		if err := sonic.Unmarshal(resp.Body(), &items); err != nil {
			return fmt.Errorf("failed to decode catalog: %w", err)
		}
		if items == nil {
			return fmt.Errorf("catalog response is not a list")
		}
		return nil
	})
	return items, err
}

func (c *Client) record(outcome string, count int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordCatalogFetch(outcome, count, d)
	}
}
