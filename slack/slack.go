package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/viaphoton/e2e-harness/chunk"
	"github.com/viaphoton/e2e-harness/report"
	"golang.org/x/sync/errgroup"
)

// FailuresPerReply is the number of failed cases listed in a single thread reply.
const FailuresPerReply = 10

// Error is a chat or webhook post that failed in transport, with a non-2xx status
// or with a response the chat API marked as not ok.
type Error struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slack post to %s: %s", e.URL, e.Err)
	}
	if e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode > 299) {
		return fmt.Sprintf("slack post to %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("slack post to %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TextObject ...
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block ...
type Block struct {
	Type string      `json:"type"`
	Text *TextObject `json:"text,omitempty"`
}

// Message is the body of a chat post, a thread reply or a webhook call.
type Message struct {
	Channel  string  `json:"channel,omitempty"`
	ThreadTS string  `json:"thread_ts,omitempty"`
	Type     string  `json:"type,omitempty"`
	Text     string  `json:"text,omitempty"`
	Blocks   []Block `json:"blocks,omitempty"`
}

// Thread identifies a posted message replies can be attached to.
type Thread struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

type postMessageResponse struct {
	OK      bool     `json:"ok"`
	Channel string   `json:"channel"`
	TS      string   `json:"ts"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors"`
}

// Config ...
type Config struct {
	PostMessageURL string
	AccessToken    string
	ChannelID      string
	BrowseURL      string
}

// Notifier ...
type Notifier interface {
	PostMessage(ctx context.Context, msg Message) (Thread, error)
	PostWebhooks(ctx context.Context, urls []string, msg Message) []error
	ReplyFailedList(ctx context.Context, thread Thread, failures []report.FailedCase) []error
}

type client struct {
	httpClient *http.Client
	config     Config
}

// NewNotifier ...
func NewNotifier(config Config) Notifier {
	return NewNotifierWithHTTPClient(cleanhttp.DefaultClient(), config)
}

// NewNotifierWithHTTPClient ...
func NewNotifierWithHTTPClient(httpClient *http.Client, config Config) Notifier {
	return &client{
		httpClient: httpClient,
		config:     config,
	}
}

// PostMessage posts msg to the configured channel unless it names one.
func (c *client) PostMessage(ctx context.Context, msg Message) (Thread, error) {
	if msg.Channel == "" {
		msg.Channel = c.config.ChannelID
	}

	body, statusCode, err := c.post(ctx, c.config.PostMessageURL, c.config.AccessToken, msg)
	if err != nil {
		return Thread{}, err
	}

	var resp postMessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Thread{}, &Error{URL: c.config.PostMessageURL, StatusCode: statusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if !resp.OK {
		reason := resp.Error
		if len(resp.Errors) > 0 {
			reason += ": " + strings.Join(resp.Errors, ",")
		}
		return Thread{}, &Error{URL: c.config.PostMessageURL, StatusCode: statusCode, Reason: reason}
	}

	return Thread{Channel: resp.Channel, TS: resp.TS}, nil
}

// PostWebhooks posts msg to every url concurrently. The returned slice holds the
// outcome of each destination at its index; one failing destination does not stop the others.
func (c *client) PostWebhooks(ctx context.Context, urls []string, msg Message) []error {
	errs := make([]error, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			_, _, errs[i] = c.post(ctx, url, "", msg)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// ReplyFailedList lists failures in the thread, FailuresPerReply at a time.
// The replies are posted concurrently and nothing is posted for an empty list.
func (c *client) ReplyFailedList(ctx context.Context, thread Thread, failures []report.FailedCase) []error {
	groups := chunk.Chunk(failures, FailuresPerReply)
	errs := make([]error, len(groups))

	var g errgroup.Group
	for i, group := range groups {
		g.Go(func() error {
			_, errs[i] = c.PostMessage(ctx, Message{
				Channel:  thread.Channel,
				ThreadTS: thread.TS,
				Blocks:   WithDividers(FailureBlocks(group, c.config.BrowseURL)),
			})
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func (c *client) post(ctx context.Context, url, token string, msg Message) ([]byte, int, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, 0, &Error{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, &Error{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &Error{URL: url, StatusCode: resp.StatusCode, Reason: string(body)}
	}

	return body, resp.StatusCode, nil
}
