package beeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// emptyBody is sent by mutating requests that have no input.
var emptyBody = struct{}{}

// do issues one request and decodes the response into out. body is JSON
// encoded when non-nil; POST and DELETE always carry one.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, baseURL := c.snapshot()

	var reader io.Reader
	if body == nil && (method == http.MethodPost || method == http.MethodDelete) {
		body = emptyBody
	}
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &SerializationError{Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return &RequestError{Err: err}
	}
	req.Header.Set("Authorization", authHeader(token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return mapRequestError(err, baseURL)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return handleResponse(resp, out)
}

// mapRequestError separates "nothing is listening" from every other transport
// failure.
func mapRequestError(err error, baseURL string) error {
	if isConnectError(err) {
		return &NotReachableError{URL: baseURL, Err: err}
	}
	return &RequestError{Err: err}
}

func isConnectError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return !opErr.Timeout()
	}
	return false
}

// handleResponse classifies a response by status and decodes its body.
func handleResponse(resp *http.Response, out any) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &RequestError{Err: err}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &SerializationError{Err: err}
		}
		return nil
	case http.StatusBadRequest, http.StatusForbidden:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &RequestError{Err: err}
		}
		apiErr := &APIError{}
		if err := json.Unmarshal(data, apiErr); err != nil {
			return &SerializationError{Err: err}
		}
		return apiErr
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &RequestError{Err: err}
		}
		return &APIError{
			Code:    strconv.Itoa(resp.StatusCode),
			Message: string(data),
		}
	}
}

// chatPath returns /v1/chats/{chatID} followed by any extra segments.
func chatPath(chatID string, rest ...string) string {
	p := "/v1/chats/" + url.PathEscape(chatID)
	for _, seg := range rest {
		p += "/" + seg
	}
	return p
}

// withPage appends cursor and direction to path. Either may be empty; when
// both are, path is returned unchanged.
func withPage(path, cursor string, dir Direction) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if cursor != "" {
		b.WriteString(sep + "cursor=" + escapeQuery(cursor))
		sep = "&"
	}
	if dir != "" {
		b.WriteString(sep + "direction=" + escapeQuery(string(dir)))
	}
	return b.String()
}

// escapeQuery percent-encodes a query value, spaces as %20.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
