// Package gateway is the generic JSON request sender. Every remote
// call in the client goes through it; raw transport and server
// failures are normalized into the apperr taxonomy here and nowhere
// else.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fakestore/storefront/internal/apperr"
)

type Client struct {
	httpClient *http.Client
}

func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send issues a request and returns the raw response body. A non-nil
// body is JSON-encoded. Errors are always *apperr.Error: Transport
// when no response was received, Server for a non-2xx status.
func (c *Client) Send(ctx context.Context, method, url string, body any, header http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(apperr.Transport, apperr.MsgUnknown, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.MsgUnknown, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.MsgNoResponse, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.MsgNoResponse, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperr.New(apperr.Server, serverMessage(resp.StatusCode, data))
	}
	return data, nil
}

// JSON is Send plus decoding of the response body into out.
func (c *Client) JSON(ctx context.Context, method, url string, body any, header http.Header, out any) error {
	data, err := c.Send(ctx, method, url, body, header)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Wrap(apperr.Server, apperr.MsgUnknown, err)
	}
	return nil
}

// serverMessage digs a human-readable message out of the error payload
// shapes the remote APIs are known to produce.
func serverMessage(status int, data []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
			var plain string
			if err := json.Unmarshal(payload.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
	}
	return fmt.Sprintf("%d: Bad Request!", status)
}
