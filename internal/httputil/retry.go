// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retrying HTTP transport used by the
// embedding client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff step. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

// MaxRetryDelay caps a single backoff wait, including Retry-After hints.
var MaxRetryDelay = time.Minute

const defaultMaxRetries = 5

// Retryable reports whether status is worth another attempt: 429 and 503
// are treated as transient.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Retrier sends requests and retries transient responses with doubling
// backoff. The zero value is usable and uses http.DefaultClient.
type Retrier struct {
	Client *http.Client

	// MaxRetries is the number of extra attempts; zero means 5.
	MaxRetries int

	// Log receives one line per retry. Nil discards.
	Log io.Writer
}

// Do executes req and retries while the response status is Retryable.
// A Retry-After header in seconds overrides the computed backoff. Request
// bodies are replayed through req.GetBody, so requests built with
// http.NewRequest over a bytes.Reader or strings.Reader retry safely.
//
// After exhausting retries the last response is returned unread so the
// caller can inspect it. A cancelled context during a wait returns
// ctx.Err().
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	log := r.Log
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		delay := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(log, "%s %s: %d, retrying in %v (attempt %d/%d)\n",
			req.Method, req.URL.Path, resp.StatusCode, delay, attempt+1, maxRetries)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// DoWithRetry is shorthand for a Retrier built from client and maxRetries.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	r := Retrier{Client: client, MaxRetries: maxRetries}
	return r.Do(ctx, req)
}

func backoff(attempt int, retryAfter string) time.Duration {
	d := RetryBaseDelay << attempt
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	}
	if d > MaxRetryDelay || d < 0 {
		d = MaxRetryDelay
	}
	return d
}
