// Package catalog is the HTTP client for the jobdeck catalog service. It
// satisfies the remote interfaces of the taxonomy, cart and delivery
// packages, so the in-process components and the HTTP surface share one
// contract.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"log/slog"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/internal/cart"
	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/internal/taxonomy"
	"github.com/jobdeck/jobdeck/pkg/models"
)

const defaultTimeout = 30 * time.Second

var (
	_ taxonomy.Catalog      = (*Client)(nil)
	_ cart.Remote           = (*Client)(nil)
	_ delivery.ResumeLookup = (*Client)(nil)
	_ delivery.Submitter    = (*Client)(nil)
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *slog.Logger
}

// New creates a client for the catalog service at baseURL. A nil logger
// silences the client.
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// SetToken sets the bearer token used on authenticated endpoints.
func (c *Client) SetToken(token string) { c.token = token }

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// do executes one JSON round-trip. A nil out discards the response body; a
// non-2xx status becomes a StatusError carrying the server's error message.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("catalog request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		return &StatusError{Status: resp.StatusCode, Message: er.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks the service's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// SignUp registers a user and stores the returned token on the client.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*TokenResponse, error) {
	var tr TokenResponse
	creds := Credentials{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", creds, &tr); err != nil {
		return nil, err
	}
	c.token = tr.Token
	return &tr, nil
}

// SignIn authenticates and stores the returned token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	var tr TokenResponse
	creds := Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", creds, &tr); err != nil {
		return nil, err
	}
	c.token = tr.Token
	return &tr, nil
}

// Taxonomy endpoints. These satisfy taxonomy.Catalog.

func (c *Client) ListIndustries(ctx context.Context) ([]models.Industry, error) {
	var out []models.Industry
	if err := c.do(ctx, http.MethodGet, "/v1/industries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateIndustry(ctx context.Context, in models.Industry) (*models.Industry, error) {
	var out models.Industry
	if err := c.do(ctx, http.MethodPost, "/v1/industries", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := c.do(ctx, http.MethodGet, "/v1/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTag(ctx context.Context, t models.Tag) (*models.Tag, error) {
	var out models.Tag
	if err := c.do(ctx, http.MethodPost, "/v1/tags", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Job endpoints.

func (c *Client) ParseJob(ctx context.Context, rawContent, sourceType string) (*ai.ParseResult, error) {
	var out ai.ParseResult
	req := ParseJobRequest{RawContent: rawContent, SourceType: sourceType}
	if err := c.do(ctx, http.MethodPost, "/v1/jobs/parse", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateJob(ctx context.Context, p *models.Posting) (*models.Posting, error) {
	var out models.Posting
	if err := c.do(ctx, http.MethodPost, "/v1/jobs", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetJob(ctx context.Context, id int64) (*models.Posting, error) {
	var out models.Posting
	err := c.do(ctx, http.MethodGet, "/v1/jobs/"+strconv.FormatInt(id, 10), nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListJobs(ctx context.Context, status string, limit, offset int) ([]models.Posting, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/v1/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Posting
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cart endpoints. These satisfy cart.Remote.

func (c *Client) CartItems(ctx context.Context) ([]models.CartItem, error) {
	var out []models.CartItem
	if err := c.do(ctx, http.MethodGet, "/v1/cart/items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddCartItem(ctx context.Context, jobID int64) error {
	path := "/v1/cart/items/" + strconv.FormatInt(jobID, 10)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, jobID int64) error {
	path := "/v1/cart/items/" + strconv.FormatInt(jobID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/cart/clear", nil, nil)
}

func (c *Client) CartCount(ctx context.Context) (int64, error) {
	var out CartCountResponse
	if err := c.do(ctx, http.MethodGet, "/v1/cart/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Resume endpoints. GetResume satisfies delivery.ResumeLookup; a 404 maps to
// (nil, nil) so callers distinguish absence from transport failure.

func (c *Client) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	var out models.Resume
	err := c.do(ctx, http.MethodGet, "/v1/resumes/"+url.PathEscape(id), nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListResumes(ctx context.Context) ([]models.Resume, error) {
	var out []models.Resume
	if err := c.do(ctx, http.MethodGet, "/v1/resumes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delivery endpoints. SubmitBatch satisfies delivery.Submitter.

func (c *Client) SubmitBatch(ctx context.Context, req delivery.BatchRequest) (*delivery.BatchResult, error) {
	var out delivery.BatchResult
	if err := c.do(ctx, http.MethodPost, "/v1/delivery/prepare", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDeliveries(ctx context.Context, status string, limit, offset int) ([]models.Delivery, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/v1/deliveries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Delivery
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDeliveryStatus drives a remote status transition (viewed, replied,
// interview, hired, rejected). Invalid transitions surface as StatusError.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id int64, status string) (*models.Delivery, error) {
	var out models.Delivery
	body := map[string]string{"status": status}
	path := "/v1/deliveries/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeliveryAnalytics aggregates deliveries by "day" or "status".
func (c *Client) DeliveryAnalytics(ctx context.Context, groupBy string) (*AnalyticsReport, error) {
	var out AnalyticsReport
	path := "/v1/analytics/deliveries?group_by=" + url.QueryEscape(groupBy)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DailyTrends returns the gap-filled per-day delivery counts for the last
// days calendar days.
func (c *Client) DailyTrends(ctx context.Context, days int) ([]TrendPoint, error) {
	var out []TrendPoint
	path := "/v1/deliveries/trends/daily?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchResume scores active jobs against a parsed resume.
func (c *Client) MatchResume(ctx context.Context, resumeID string, limit int) ([]models.MatchResult, error) {
	var out []models.MatchResult
	req := MatchRequest{ResumeID: resumeID, Limit: limit}
	if err := c.do(ctx, http.MethodPost, "/v1/ai/match", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
