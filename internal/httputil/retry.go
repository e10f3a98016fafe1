// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryBaseDelay is the base duration for exponential backoff on HTTP 429
// responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-provided Retry-After value.
const maxRetryAfter = 30 * time.Second

// Retrier retries requests rejected with HTTP 429 (Too Many Requests).
// Other statuses and transport errors are returned to the caller unchanged,
// so model fallback stays the caller's decision.
type Retrier struct {
	Client     *http.Client
	MaxRetries int
	Logger     logrus.FieldLogger
}

// Do executes req and retries on 429 with exponential backoff starting at
// RetryBaseDelay, or the server's Retry-After seconds when present. The
// request body must be replayable (GetBody set), which holds for requests
// built by http.NewRequest from a bytes.Reader.
//
// When MaxRetries is 0 no retry happens. If ctx is cancelled during a wait,
// ctx.Err() is returned. After exhausting retries the last 429 response is
// returned so the caller can report it.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= r.MaxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if r.Logger != nil {
			r.Logger.WithFields(logrus.Fields{
				"url":     req.URL.Redacted(),
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).Debug("rate limited, retrying")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the wait before retry attempt+1.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfter {
			d = maxRetryAfter
		}
		return d
	}
	return RetryBaseDelay << attempt
}
