// Package httpx builds the outbound HTTP clients used for the forecast engine,
// the weather provider and page imports.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"agri/pkg/apperr"
)

// NewClient bounds connection setup by connect and the whole exchange by
// connect+read.
func NewClient(connect, read time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = dialer.DialContext
	tr.TLSHandshakeTimeout = connect
	tr.ResponseHeaderTimeout = read
	return &http.Client{Transport: tr, Timeout: connect + read}
}

// maxErrorBody caps how much of a failed response is kept for the message.
const maxErrorBody = 512

// DoJSON sends in (when non-nil) as JSON and decodes a 2xx body into out.
// Transport failures, non-2xx answers and undecodable bodies all come back
// as INFRASTRUCTURE errors naming the dependency.
func DoJSON(ctx context.Context, c *http.Client, dep, method, url string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", dep, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return apperr.Infra(err, "%s: bad request url", dep)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return apperr.Infra(err, "%s unavailable", dep)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperr.Infra(fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)), "%s answered %d", dep, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Infra(err, "%s: undecodable response", dep)
	}
	return nil
}
