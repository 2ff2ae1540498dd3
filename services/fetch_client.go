package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default fetch limits. Paper hosts are slow and occasionally hostile, so
// every request is bounded in both time and size.
const (
	defaultFetchTimeout  = 45 * time.Second
	defaultMaxBodyBytes  = 10 << 20 // 10 MiB
	defaultMaxAttempts   = 3
	defaultRenderProxy   = "https://r.jina.ai/"
	browserUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultRefererHint   = "https://pastpapers.wiki/"
	errorSnippetMaxBytes = 200
)

// FetchError reports exhaustion of all fetch attempts for one URL.
type FetchError struct {
	URL         string
	Status      int
	Attempts    int
	BodySnippet string
	Err         error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s failed after %d attempts: HTTP %d", e.URL, e.Attempts, e.Status)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transport is one way of reaching a URL. Transports are tried in order
// with a shared attempt budget, so a new strategy (e.g. a headless-render
// service) can be added without touching call sites.
type Transport interface {
	Name() string
	// Rewrite maps the target URL to the URL actually requested. ok=false
	// means this transport cannot serve the target.
	Rewrite(url string) (rewritten string, ok bool)
}

type directTransport struct{}

func (directTransport) Name() string                    { return "direct" }
func (directTransport) Rewrite(url string) (string, bool) { return url, true }

// renderProxyTransport routes the request through an HTML-rendering proxy
// that fetches on our behalf. Sources that block obviously-automated
// clients with 403/429 usually let the proxy through.
type renderProxyTransport struct {
	base string
}

func (renderProxyTransport) Name() string { return "render-proxy" }

func (t renderProxyTransport) Rewrite(url string) (string, bool) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", false
	}
	return t.base + url, true
}

// FetchConfig tunes a FetchClient. Zero values fall back to defaults.
type FetchConfig struct {
	Timeout        time.Duration
	MaxAttempts    int
	MaxBodyBytes   int64
	RenderProxyURL string
	Referer        string
}

// FetchClient fetches HTML pages and PDF bytes with retry across transport
// strategies. Requests carry browser-like headers; this is a pragmatic
// workaround for anti-bot rejection of server-side clients, not a bypass of
// any access control.
type FetchClient struct {
	httpClient   *http.Client
	transports   []Transport
	maxAttempts  int
	maxBodyBytes int64
	referer      string
}

// NewFetchClient creates a fetch client with the direct and render-proxy
// transports.
func NewFetchClient(cfg FetchConfig) *FetchClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.RenderProxyURL == "" {
		cfg.RenderProxyURL = defaultRenderProxy
	}
	if cfg.Referer == "" {
		cfg.Referer = defaultRefererHint
	}

	return &FetchClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		transports: []Transport{
			directTransport{},
			renderProxyTransport{base: cfg.RenderProxyURL},
		},
		maxAttempts:  cfg.MaxAttempts,
		maxBodyBytes: cfg.MaxBodyBytes,
		referer:      cfg.Referer,
	}
}

// FetchHTML fetches a page and returns its body as text.
func (c *FetchClient) FetchHTML(ctx context.Context, url string) (string, error) {
	body, err := c.fetch(ctx, url, "text/html,application/xhtml+xml,*/*")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchPDF fetches a PDF and returns the raw bytes.
func (c *FetchClient) FetchPDF(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, "application/pdf,*/*")
}

// fetch walks the transport list until a 2xx response or the attempt budget
// runs out. Non-2xx statuses (403/429 from anti-bot layers included) fail
// the attempt and roll over to the next transport.
func (c *FetchClient) fetch(ctx context.Context, url, accept string) ([]byte, error) {
	fErr := &FetchError{URL: url}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		transport := c.transports[attempt%len(c.transports)]
		target, ok := transport.Rewrite(url)
		if !ok {
			continue
		}
		fErr.Attempts++

		body, status, err := c.doRequest(ctx, target, accept)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}
		if err != nil {
			fErr.Err = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		fErr.Status = status
		if len(body) > 0 {
			snippet := body
			if len(snippet) > errorSnippetMaxBytes {
				snippet = snippet[:errorSnippetMaxBytes]
			}
			fErr.BodySnippet = string(snippet)
		}
	}

	return nil, fErr
}

func (c *FetchClient) doRequest(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	// Bounded read: one oversized or adversarial response must not take the
	// whole process with it.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, resp.StatusCode, fmt.Errorf("response exceeds %d byte limit", c.maxBodyBytes)
	}
	return body, resp.StatusCode, nil
}
