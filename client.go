package authstate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	PathLogin          = "/api/v1/user/login"
	PathMe             = "/api/v1/user/me"
	PathLogout         = "/api/v1/user/logout"
	PathUpdatePassword = "/api/v1/user/update/password"
	PathUpdateProfile  = "/api/v1/user/update/me"

	HeaderRequestID = "X-Request-ID"
)

const (
	OperationLogin          = "login"
	OperationRestoreSession = "restore_session"
	OperationLogout         = "logout"
	OperationChangePassword = "change_password"
	OperationUpdateProfile  = "update_profile"
)

var _ API = &APIClient{}

// APIClient talks to the user service. Session cookies set by the
// service are kept in a cookie jar and sent back on every request.
type APIClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     Logger
}

// ClientOption customizes the API client.
type ClientOption func(*APIClient)

// WithHTTPClient sets the http.Client used for requests. The client is
// copied; a missing cookie jar or zero timeout is taken from the
// configured defaults.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *APIClient) {
		if client == nil {
			return
		}
		cp := *client
		if cp.Jar == nil {
			cp.Jar = c.httpClient.Jar
		}
		if cp.Timeout == 0 {
			cp.Timeout = c.httpClient.Timeout
		}
		c.httpClient = &cp
	}
}

// WithClientLogger overrides the logger used for request tracing.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *APIClient) {
		c.userAgent = ua
	}
}

// NewAPIClient creates a client for the service at cfg.GetBaseURL().
func NewAPIClient(cfg Config, opts ...ClientOption) (*APIClient, error) {
	if cfg == nil {
		cfg = Options{}
	}

	baseURL := strings.TrimRight(cfg.GetBaseURL(), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerrors.New("invalid base url: "+baseURL, goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create cookie jar")
	}

	c := &APIClient{
		baseURL:   baseURL,
		userAgent: cfg.GetUserAgent(),
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
			Jar:     jar,
		},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// BaseURL returns the service root requests are sent to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Cookies returns the credentials currently held for the service.
func (c *APIClient) Cookies() []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// Login implements API.
func (c *APIClient) Login(ctx context.Context, payload LoginPayload) (User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return User{}, operationFailed(OperationLogin, 0, "", err)
	}

	var out userResponse
	if err := c.do(ctx, OperationLogin, http.MethodPost, PathLogin, bytes.NewReader(body), "application/json", &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Me implements API.
func (c *APIClient) Me(ctx context.Context) (User, error) {
	var out userResponse
	if err := c.do(ctx, OperationRestoreSession, http.MethodGet, PathMe, nil, "", &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Logout implements API.
func (c *APIClient) Logout(ctx context.Context) (string, error) {
	var out messageResponse
	if err := c.do(ctx, OperationLogout, http.MethodGet, PathLogout, nil, "", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UpdatePassword implements API.
func (c *APIClient) UpdatePassword(ctx context.Context, payload PasswordUpdatePayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", operationFailed(OperationChangePassword, 0, "", err)
	}

	var out messageResponse
	if err := c.do(ctx, OperationChangePassword, http.MethodPut, PathUpdatePassword, bytes.NewReader(body), "application/json", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UpdateProfile implements API.
func (c *APIClient) UpdateProfile(ctx context.Context, form ProfileForm) (string, error) {
	var buf bytes.Buffer
	contentType, err := form.WriteMultipart(&buf)
	if err != nil {
		return "", operationFailed(OperationUpdateProfile, 0, "", err)
	}

	var out messageResponse
	if err := c.do(ctx, OperationUpdateProfile, http.MethodPut, PathUpdateProfile, &buf, contentType, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *APIClient) do(ctx context.Context, operation, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return operationFailed(operation, 0, "", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("api request", "operation", operation, "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api transport error", "operation", operation, "request_id", requestID, "error", err)
		return operationFailed(operation, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return operationFailed(operation, resp.StatusCode, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := apiErrorMessage(raw)
		c.logger.Info("api request failed", "operation", operation, "status", resp.StatusCode, "request_id", requestID, "message", msg)
		return operationFailed(operation, resp.StatusCode, msg, nil)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return operationFailed(operation, resp.StatusCode, "", err)
	}

	return nil
}

type userResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type apiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// apiErrorMessage returns the message of a failed response body, or ""
// when the body has none. Callers fall back to UnknownErrorMessage.
func apiErrorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Message)
}
