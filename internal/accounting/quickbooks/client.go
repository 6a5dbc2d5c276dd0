// Package quickbooks fetches reports from the QuickBooks Online Reports API.
package quickbooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/port"
	"holdops/internal/report"
)

const (
	providerName = "quickbooks"

	// TokenKeyPrefix prefixes the KV key holding a company's access token.
	TokenKeyPrefix = "qbo:token:"

	maxBodyBytes = 20 << 20
)

// Config holds client settings.
type Config struct {
	BaseURL          string
	MinorVersion     string
	AccountingMethod string
	Timeout          time.Duration
	MaxElapsed       time.Duration
	InitialInterval  time.Duration
}

// Client implements port.ReportFetcher against the QuickBooks Reports API.
type Client struct {
	cfg        Config
	tokens     port.KVStore
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a Client. Access tokens are read from tokens under
// TokenKeyPrefix+slug and are never refreshed here.
func NewClient(cfg Config, tokens port.KVStore, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	return &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// TokenKey returns the KV key of a company's access token.
func TokenKey(slug string) string {
	return TokenKeyPrefix + slug
}

type storedToken struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken(ctx context.Context, company domain.Company) (string, error) {
	raw, err := c.tokens.Get(ctx, TokenKey(company.Slug))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: no token for %s", domain.ErrMissingCredentials, company.Slug)
		}
		return "", fmt.Errorf("reading token for %s: %w", company.Slug, err)
	}
	var tok storedToken
	if err := json.Unmarshal(raw, &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("%w: unreadable token for %s", domain.ErrMissingCredentials, company.Slug)
	}
	return tok.AccessToken, nil
}

func (c *Client) reportURL(company domain.Company, req domain.ReportRequest) string {
	q := url.Values{}
	if req.Start != "" {
		q.Set("start_date", req.Start)
	}
	if req.End != "" {
		q.Set("end_date", req.End)
	}
	if req.AsOf != "" {
		q.Set("report_date", req.AsOf)
	}
	if req.SummarizeBy != "" {
		q.Set("summarize_column_by", req.SummarizeBy)
	}
	method := req.AccountingMethod
	if method == "" {
		method = c.cfg.AccountingMethod
	}
	if method != "" {
		q.Set("accounting_method", method)
	}
	if c.cfg.MinorVersion != "" {
		q.Set("minorversion", c.cfg.MinorVersion)
	}
	return fmt.Sprintf("%s/v3/company/%s/reports/%s?%s",
		c.cfg.BaseURL, url.PathEscape(company.RealmID), req.Kind.VendorName(), q.Encode())
}

// FetchReport downloads one report and decodes it into a typed tree.
// Rate limiting and server errors are retried with exponential backoff.
func (c *Client) FetchReport(ctx context.Context, company domain.Company, req domain.ReportRequest) (*report.Document, error) {
	if req.Kind.VendorName() == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReportKind, req.Kind)
	}
	token, err := c.accessToken(ctx, company)
	if err != nil {
		return nil, err
	}
	target := c.reportURL(company, req)

	var body []byte
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = data
			return nil
		}

		upErr := domain.NewUpstreamError(providerName, resp.StatusCode, string(data), resp.Header.Get("Retry-After"))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			upErr.Err = domain.ErrMissingCredentials
		}
		if upErr.Retryable() {
			return upErr
		}
		return backoff.Permanent(upErr)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	if c.cfg.MaxElapsed > 0 {
		bo.MaxElapsedTime = c.cfg.MaxElapsed
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("quickbooks: retrying report fetch",
			zap.String("company", company.Slug),
			zap.String("report", req.Kind.VendorName()),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, fmt.Errorf("fetching %s for %s: %w", req.Kind.VendorName(), company.Slug, err)
	}

	doc, err := report.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s for %s: %w", req.Kind.VendorName(), company.Slug, err)
	}
	c.log.Debug("quickbooks: report fetched",
		zap.String("company", company.Slug),
		zap.String("report", req.Kind.VendorName()),
		zap.Int("bytes", len(body)),
		zap.Int("rows", len(doc.Rows)))
	return doc, nil
}
