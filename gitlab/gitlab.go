package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	version "github.com/hashicorp/go-version"
)

// ProjectIDPlaceholder is replaced by the project id in the configured tags URL.
const ProjectIDPlaceholder = "GITLAB_PROJECT_ID"

// Error is a tag lookup that failed in transport, with a non-2xx status or with an unusable body.
type Error struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gitlab tag lookup: %s", e.Err)
	}
	return fmt.Sprintf("gitlab tag lookup: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Tag ...
type Tag struct {
	Name string `json:"name"`
}

// VersionProvider ...
type VersionProvider interface {
	LatestVersion(ctx context.Context) (string, error)
}

type tagsClient struct {
	httpClient   *http.Client
	tagsURL      string
	projectID    string
	privateToken string
}

// NewVersionProvider ...
func NewVersionProvider(tagsURL, projectID, privateToken string) VersionProvider {
	return NewVersionProviderWithHTTPClient(cleanhttp.DefaultClient(), tagsURL, projectID, privateToken)
}

// NewVersionProviderWithHTTPClient ...
func NewVersionProviderWithHTTPClient(httpClient *http.Client, tagsURL, projectID, privateToken string) VersionProvider {
	return &tagsClient{
		httpClient:   httpClient,
		tagsURL:      tagsURL,
		projectID:    projectID,
		privateToken: privateToken,
	}
}

// LatestVersion returns the name of the first tag the project lists, which GitLab orders newest first.
func (c *tagsClient) LatestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(), nil)
	if err != nil {
		return "", &Error{Err: err}
	}
	req.Header.Set("PRIVATE-TOKEN", c.privateToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tags []Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse tags: %w", err)}
	}
	if len(tags) == 0 || tags[0].Name == "" {
		return "", &Error{StatusCode: resp.StatusCode, Err: fmt.Errorf("project has no tags")}
	}

	return tags[0].Name, nil
}

func (c *tagsClient) url() string {
	return strings.ReplaceAll(c.tagsURL, ProjectIDPlaceholder, c.projectID)
}

// NormalizeVersion renders semantic version tags (v1.2.3, 1.2) in their canonical form
// and leaves any other tag name untouched.
func NormalizeVersion(tag string) string {
	ver, err := version.NewVersion(tag)
	if err != nil {
		return tag
	}
	return "v" + ver.String()
}
