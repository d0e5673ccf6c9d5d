// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// DefaultTimeout bounds outbound dependency calls when the configuration
// gives no explicit timeout. A hung catalog or AI endpoint must not stall
// the pipeline for more than single-digit seconds.
const DefaultTimeout = 8 * time.Second

// NewClient builds the HTTP client shared by the catalog, normalization,
// and embedding stages. The client enforces cfg.Timeout (DefaultTimeout
// when unset) and stamps cfg.UserAgent on every request that does not set
// its own User-Agent header.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.UserAgent != "" {
		transport = &userAgentTransport{agent: cfg.UserAgent, next: transport}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// userAgentTransport sets a default User-Agent header. The request is
// cloned first; RoundTrippers must not mutate the caller's request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}
