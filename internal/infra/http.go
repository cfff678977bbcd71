package infra

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single request round-trip.
const DefaultTimeout = 30 * time.Second

// DefaultClient is used when a caller passes a nil client.
var DefaultClient = &http.Client{Timeout: DefaultTimeout}

// HTTPError is returned for a non-2xx response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// NotFound reports whether the server answered 404.
func (e *HTTPError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// DoGetWith performs a GET request and returns the response body, which the
// caller must close, and the status code. A nil client means DefaultClient.
// A non-2xx status is returned as *HTTPError with the body already closed.
// Gzip and deflate bodies are decoded when the caller asked for them explicitly via Accept-Encoding.
func DoGetWith(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	if resp.Uncompressed {
		return resp.Body, resp.StatusCode, nil
	}
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, resp.StatusCode, fmt.Errorf("gzip body from %s: %w", url, err)
		}
		return &decodedBody{Reader: zr, closer: zr, underlying: resp.Body}, resp.StatusCode, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, resp.StatusCode, fmt.Errorf("deflate body from %s: %w", url, err)
		}
		return &decodedBody{Reader: zr, closer: zr, underlying: resp.Body}, resp.StatusCode, nil
	}
	return resp.Body, resp.StatusCode, nil
}

// ReadAll is DoGetWith followed by reading the whole body.
func ReadAll(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	body, _, err := DoGetWith(ctx, client, url, headers)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// decodedBody closes both the decompressor and the response body.
type decodedBody struct {
	io.Reader
	closer     io.Closer
	underlying io.ReadCloser
}

func (d *decodedBody) Close() error {
	d.closer.Close()
	return d.underlying.Close()
}
