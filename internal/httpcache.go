/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/s3store"
)

type CacheOptions struct {
	// Bucket selects the S3 backed cache; empty keeps entries in memory.
	Bucket string
	Prefix string
	Gzip   bool
	MaxAge time.Duration
}

// NewCachedHttpClient returns an http.Client that caches responses in S3 when
// a bucket is configured and reachable, and in memory otherwise. Origin
// cache headers are replaced so every response is kept for opts.MaxAge.
func NewCachedHttpClient(ctx context.Context, opts CacheOptions,
	logger logrus.FieldLogger) *http.Client {

	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultCacheMaxAge
	}

	var cache httpcache.Cache
	if opts.Bucket != "" {
		store := s3store.New(ctx, opts.Bucket, opts.Prefix, opts.Gzip, logger)
		if err := store.Init(); err != nil {
			logger.WithError(err).
				Warn("httpcache: failed to init S3 cache; falling back to memory")
		} else {
			cache = store
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	hc := httpcache.NewTransport(cache)
	// origin servers (spreadsheet exports in particular) usually send
	// no-cache headers, which have to be overridden before httpcache sees them
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d",
				int(opts.MaxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
