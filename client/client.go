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
	"time"

	"price-chart/config"
	"price-chart/logging"
	"price-chart/models"

	"github.com/sirupsen/logrus"
)

const dataPath = "/api/data-generate"

// ErrFetch is wrapped by every failure to obtain a series.
var ErrFetch = errors.New("error fetching data")

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	log        *logrus.Entry
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithRetry(cfg RetryConfig) Option {
	return func(cl *Client) {
		cl.retry = cfg
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(cl *Client) {
		cl.log = logging.Component(logger, "client")
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetry,
		log:        logging.Component(nil, "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSeries requests days points for seed. An empty seed lets the server pick one.
func (c *Client) FetchSeries(ctx context.Context, days int, seed string) (models.Series, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	if seed != "" {
		params.Set("seed", seed)
	}
	target := c.baseURL + dataPath + "?" + params.Encode()

	resp, err := Do(ctx, c.httpClient, c.retry, c.log, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}

	var data models.Series
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetch, err)
	}
	return data, nil
}

// FetchPeriod resolves a named period such as "1w" before fetching.
func (c *Client) FetchPeriod(ctx context.Context, period, seed string) (models.Series, error) {
	days, err := config.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	return c.FetchSeries(ctx, days, seed)
}

// FetchComparison fetches the series for seed and for its comparison seed.
func (c *Client) FetchComparison(ctx context.Context, period, seed string) (models.Series, models.Series, error) {
	compSeed, err := ComparisonSeed(seed)
	if err != nil {
		return nil, nil, err
	}

	primary, err := c.FetchPeriod(ctx, period, seed)
	if err != nil {
		return nil, nil, err
	}
	comparison, err := c.FetchPeriod(ctx, period, compSeed)
	if err != nil {
		return nil, nil, err
	}
	return primary, comparison, nil
}
