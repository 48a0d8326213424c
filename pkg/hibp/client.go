// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package hibp checks passwords against the Pwned Passwords corpus with the k-anonymity range
// API. Only the first 5 hexadecimal characters of the password's SHA-1 ever leave the process.
package hibp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.pwnedpasswords.com"
	DefaultUserAgent = "safekey-range-client/1.0"
	// A range response is around 40 KiB with padding.
	maxRangeBody = 4 << 20
)

// Result is the outcome of a successful lookup. Count > 0 if and only if Breached.
type Result struct {
	Breached bool  `json:"breached"`
	Count    int64 `json:"count"`
}

type Options struct {
	BaseURL string
	// Timeout bounds a whole lookup, retries included.
	Timeout time.Duration
	// RetryMax is clamped to 0..1.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// AddPadding asks the API to pad responses with fake zero-count entries, so the response
	// size does not hint at the prefix.
	AddPadding bool
	UserAgent  string
}

func DefaultOptions() Options {
	return Options{
		BaseURL:      DefaultBaseURL,
		Timeout:      3 * time.Second,
		RetryMax:     1,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 500 * time.Millisecond,
		AddPadding:   true,
		UserAgent:    DefaultUserAgent,
	}
}

type Client struct {
	opts Options
	http *retryablehttp.Client
	stat *status
}

func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.RetryMax > 1 {
		opts.RetryMax = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	return &Client{
		opts: opts,
		http: initHttpClient(opts),
		stat: newStatus(),
	}
}

func initHttpClient(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// The request URL holds the hash prefix, keep it out of the logs.
	client.Logger = nil

	// One retry at most, a lookup must answer within its timeout.
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	// Hand back the last response so the status code can be reported.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient = &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   opts.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   opts.Timeout,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}

	return client
}

// Lookup reports whether password is in the breach corpus and how many times it was seen.
// Any failure matches ErrUnavailable.
func (c *Client) Lookup(ctx context.Context, password string) (Result, error) {
	digest := hashPassword(password)
	defer zero(digest)

	prefix := string(digest[:prefixLen])
	body, err := c.downloadRange(ctx, prefix)
	if err != nil {
		c.stat.RequestFailed()
		return Result{}, err
	}

	count, err := findSuffix(body, digest[prefixLen:])
	if err != nil {
		c.stat.RequestFailed()
		return Result{}, &UnavailableError{Reason: ReasonMalformed}
	}

	return Result{Breached: count > 0, Count: count}, nil
}

func (c *Client) rangeHttpRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/range/%s", c.opts.BaseURL, prefix),
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	if c.opts.AddPadding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

func (c *Client) downloadRange(ctx context.Context, prefix string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	timer := time.Now()
	req, err := c.rangeHttpRequest(ctx, prefix)
	if err != nil {
		return nil, &UnavailableError{Reason: ReasonNetwork}
	}

	res, err := c.http.Do(req)
	if err != nil {
		if res != nil {
			closeBody(res.Body)
		}
		return nil, classify(ctx, err)
	}
	defer closeBody(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UnavailableError{Reason: ReasonStatus, StatusCode: res.StatusCode}
	}

	resBody, err := io.ReadAll(io.LimitReader(res.Body, maxRangeBody))
	if err != nil {
		return nil, classify(ctx, err)
	}

	c.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	return resBody, nil
}

func classify(ctx context.Context, err error) *UnavailableError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &UnavailableError{Reason: ReasonTimeout}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &UnavailableError{Reason: ReasonTimeout}
	case errors.Is(err, context.Canceled):
		return &UnavailableError{Reason: ReasonCanceled}
	default:
		return &UnavailableError{Reason: ReasonNetwork}
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing range response body")
	}
}

// Stats returns a snapshot of the request counters of this client.
func (c *Client) Stats() Stats {
	return c.stat.Snapshot()
}

// LogSummary logs the request counters, usually once at shutdown.
func (c *Client) LogSummary() {
	c.stat.Summary()
}
