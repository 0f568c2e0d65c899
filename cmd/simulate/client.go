package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// apiError is a non-2xx answer from the kiosk API.
type apiError struct {
	Status int
	Code   string `json:"error"`
	Detail string `json:"details"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Detail)
}

type kioskClient struct {
	baseURL string
	http    *http.Client
	metrics *Metrics
}

// call sends one request, records its latency under op and decodes a 2xx
// body into out when out is non-nil.
func (c *kioskClient) call(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.metrics.op(op).Record(latency, false, false)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.op(op).Record(latency, false, false)
		return err
	}

	if resp.StatusCode >= 300 {
		c.metrics.op(op).Record(latency, false, resp.StatusCode == http.StatusConflict)
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	c.metrics.op(op).Record(latency, true, false)
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
