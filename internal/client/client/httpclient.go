package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPClient creates a client for the API rooted at serverURL.
func NewHTTPClient(serverURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server url is required")
	}
	baseURL, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "rest"),
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{"email": email, "password": password}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login: empty access token")
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) error {
	return c.doRequest(ctx, http.MethodPost, "/users/register/", "", reg, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	var user models.UserRecord
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UploadResume(ctx context.Context, token, filename string, r io.Reader) (*models.UploadReceipt, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile("file", path.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/resumes/upload", token, &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var receipt models.UploadReceipt
	if err := c.do(req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *HTTPClient) GetResume(ctx context.Context, token string, id models.ID) (*models.ResumeRecord, error) {
	p := "/resumes/my-resume"
	if !id.IsZero() {
		p = "/resumes/" + url.PathEscape(id.String()) + "/"
	}

	var resume models.ResumeRecord
	if err := c.doRequest(ctx, http.MethodGet, p, token, nil, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (c *HTTPClient) SubmitMatch(ctx context.Context, token string, mr models.MatchRequest) (*models.MatchReceipt, error) {
	var receipt models.MatchReceipt
	if err := c.doRequest(ctx, http.MethodPost, "/jobs/match", token, mr, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *HTTPClient) GetMatch(ctx context.Context, token string, id models.ID) (*models.MatchRecord, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("get match: %w: empty id", ErrBadRequest)
	}

	var match models.MatchRecord
	if err := c.doRequest(ctx, http.MethodGet, "/jobs/matches/"+url.PathEscape(id.String()), token, nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *HTTPClient) AdminStats(ctx context.Context, token string) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.doRequest(ctx, http.MethodGet, "/admin/stats", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// doRequest performs a JSON request; token may be empty for anonymous calls.
func (c *HTTPClient) doRequest(ctx context.Context, method, p, token string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, p, token, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, respBody)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, p, token string, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + p

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, respBody any) error {
	c.logger.Debug(req.Context(), "request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, bodyBytes)
		c.logger.Debug(req.Context(), "api error", "path", req.URL.Path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if respBody != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
