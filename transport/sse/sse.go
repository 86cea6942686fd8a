// Package sse consumes text/event-stream feeds as item streams.
package sse

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	E "github.com/weirlab/flume/common/exceptions"
)

// Event is one dispatched server-sent event. ID carries the sticky
// last-event-id, Type is empty when the stream names none, Retry is
// zero unless the stream advertised a reconnection delay.
type Event struct {
	ID    string
	Type  string
	Data  string
	Retry time.Duration
}

type Client struct {
	client  *http.Client
	headers http.Header
}

type Options struct {
	Client     *http.Client
	TLSConfig  *tls.Config
	ForceHTTP2 bool
	Headers    http.Header
}

func NewClient(options Options) *Client {
	client := options.Client
	if client == nil {
		switch {
		case options.ForceHTTP2:
			client = &http.Client{
				Transport: &http2.Transport{
					TLSClientConfig: options.TLSConfig,
				},
			}
		case options.TLSConfig != nil:
			client = &http.Client{
				Transport: &http.Transport{
					TLSClientConfig:   options.TLSConfig,
					ForceAttemptHTTP2: true,
				},
			}
		default:
			client = http.DefaultClient
		}
	}
	return &Client{
		client:  client,
		headers: options.Headers,
	}
}

// Subscribe opens the event stream. The response body is bound to ctx,
// so a read blocked mid-stream unblocks when ctx is done.
func (c *Client) Subscribe(ctx context.Context, url string) (*Source, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "text/event-stream")
	request.Header.Set("Cache-Control", "no-cache")
	for key, values := range c.headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	response, err := c.client.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, E.New("unexpected status ", response.StatusCode)
	}
	return NewSource(response.Body), nil
}
