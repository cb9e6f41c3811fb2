package adapters

import (
	"fmt"
	"io"
	"net/http"
	"short-video-agent/application/ports/outbound"
)

// StatusError is returned when the remote side answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP request returned status %d: %s", e.StatusCode, e.Body)
}

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	StreamContent(req *http.Request, w io.Writer) (int64, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort, client *http.Client) ContentFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &contentFetcher{
		logger: logger,
		client: client,
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(req, res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}

// StreamContent copies the response body into w without buffering it.
func (c *contentFetcher) StreamContent(req *http.Request, w io.Writer) (int64, error) {
	res, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer c.closeBody(req, res.Body)

	n, err := io.Copy(w, res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to stream the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
			"copied": n,
		})
		return n, err
	}
	return n, nil
}

func (c *contentFetcher) do(req *http.Request) (*http.Response, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer c.closeBody(req, res.Body)
		bodyPayload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		statusErr := &StatusError{StatusCode: res.StatusCode, Body: string(bodyPayload)}
		c.logger.ErrorWithFields(statusErr, "HTTP request returned non-OK status code", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
			"status": res.StatusCode,
		})
		return nil, statusErr
	}

	return res, nil
}

func (c *contentFetcher) closeBody(req *http.Request, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
	}
}
