package tally

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/stocksync/internal/config"
	"github.com/mamadbah2/stocksync/internal/domain/models"
)

// Client exposes the accounting system's XML export operations used by the application.
type Client interface {
	TestConnection(ctx context.Context) bool
	FetchStockSummary(ctx context.Context) ([]byte, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	endpoint      string
	probeTimeout  time.Duration
	exportTimeout time.Duration
	logger        *zap.Logger
}

// NewClient builds an export client using the provided configuration values.
func NewClient(cfg config.TallyConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/xml")

	return &APIClient{
		httpClient:    restyClient,
		endpoint:      strings.TrimSuffix(cfg.URL, "/"),
		probeTimeout:  cfg.ProbeTimeout,
		exportTimeout: cfg.ExportTimeout,
		logger:        logger,
	}
}

// TestConnection sends the Company Info export and reports whether it succeeded.
// Every failure collapses to false.
func (c *APIClient) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(CompanyInfoRequest()).
		Post(c.endpoint)
	if err != nil {
		c.logger.Warn("tally connection failed", zap.String("url", c.endpoint), zap.Error(err))
		return false
	}
	if !resp.IsSuccess() {
		c.logger.Warn("tally connection rejected", zap.String("url", c.endpoint), zap.Int("status", resp.StatusCode()))
		return false
	}

	c.logger.Debug("tally connection successful", zap.Int("status", resp.StatusCode()))
	return true
}

// FetchStockSummary requests the Stock Summary export and returns the raw body.
func (c *APIClient) FetchStockSummary(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.exportTimeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(StockSummaryRequest()).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", models.ErrFetchFailed, resp.StatusCode())
	}

	c.logger.Debug("stock summary fetched", zap.Int("bytes", len(resp.Body())), zap.Duration("latency", resp.Time()))
	return resp.Body(), nil
}
