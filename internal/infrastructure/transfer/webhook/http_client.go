package webhooktransfer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseExcerpt bounds how much of the endpoint's response is kept for
// error reporting.
const maxResponseExcerpt = 512

type client struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *client {
	return &client{&http.Client{Timeout: requestTimeout}}
}

// post sends body to url and returns the response status code together with
// an excerpt of the response body.
func (c *client) post(
	ctx context.Context, url string, body []byte, headers map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return 0, "", err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	excerpt, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseExcerpt))
	if err != nil {
		return resp.StatusCode, "", nil
	}
	// Drain the rest so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, strings.TrimSpace(string(excerpt)), nil
}
