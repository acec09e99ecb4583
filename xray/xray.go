package xray

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// Error is an Xray request that failed in transport or with a non-2xx status.
type Error struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xray %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("xray %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Credentials ...
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ImportResult is the test execution the results were imported into.
type ImportResult struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Client ...
type Client interface {
	Authenticate(ctx context.Context) (string, error)
	ImportResults(ctx context.Context, token, ticket string, report []byte) (ImportResult, error)
}

type client struct {
	httpClient  *http.Client
	authURL     string
	importURL   string
	credentials Credentials
}

// NewClient ...
func NewClient(authURL, importURL string, credentials Credentials) Client {
	return NewClientWithHTTPClient(cleanhttp.DefaultClient(), authURL, importURL, credentials)
}

// NewClientWithHTTPClient ...
func NewClientWithHTTPClient(httpClient *http.Client, authURL, importURL string, credentials Credentials) Client {
	return &client{
		httpClient:  httpClient,
		authURL:     authURL,
		importURL:   importURL,
		credentials: credentials,
	}
}

// Authenticate exchanges the API credentials for a bearer token.
func (c *client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(c.credentials)
	if err != nil {
		return "", err
	}

	respBody, err := c.post(ctx, "authenticate", c.authURL, "application/json", "", body)
	if err != nil {
		return "", err
	}

	// The endpoint answers with a JSON string.
	var token string
	if err := json.Unmarshal(respBody, &token); err != nil {
		token = strings.Trim(strings.TrimSpace(string(respBody)), `"`)
	}
	if token == "" {
		return "", &Error{Op: "authenticate", StatusCode: http.StatusOK, Body: "empty token"}
	}

	return token, nil
}

// ImportResults uploads a JUnit report into the test execution identified by ticket.
func (c *client) ImportResults(ctx context.Context, token, ticket string, report []byte) (ImportResult, error) {
	importURL, err := withTestExecKey(c.importURL, ticket)
	if err != nil {
		return ImportResult{}, &Error{Op: "import", Err: err}
	}

	respBody, err := c.post(ctx, "import", importURL, "text/xml", token, report)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ImportResult{}, &Error{Op: "import", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return result, nil
}

func (c *client) post(ctx context.Context, op, target, contentType, token string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func withTestExecKey(rawURL, ticket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set("testExecKey", ticket)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
