// Package sources downloads raw indicator payloads from their publishers and
// decodes them into string tables.
package sources

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Kind is the raw shape of a published payload.
type Kind int

const (
	KindWorkbook Kind = iota
	KindDelimited
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindWorkbook:
		return "workbook"
	case KindDelimited:
		return "delimited"
	case KindArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// Endpoint is a fixed remote source.
type Endpoint struct {
	Name string
	URL  string
	Kind Kind
	// FileName is used when the raw payload is retained.
	FileName string
	// InsecureTLS disables certificate verification for this endpoint only.
	InsecureTLS bool
}

// Payload is a downloaded body.
type Payload struct {
	Endpoint    Endpoint
	Body        []byte
	ContentType string
	FetchedAt   time.Time
}

// Options configures the HTTP clients used by a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the underlying round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Fetcher downloads payloads. It keeps a verifying client for every endpoint
// and a separate client without certificate verification that is only used
// for endpoints flagged InsecureTLS.
type Fetcher struct {
	client   *resty.Client
	insecure *resty.Client
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   newClient(opts, false),
		insecure: newClient(opts, true),
		logger:   logger.With(slog.String("component", "fetcher")),
	}
}

func newClient(opts Options, insecure bool) *resty.Client {
	client := resty.New()
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if insecure {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // scoped to flagged endpoints
	}
	return client
}

// Fetch downloads the endpoint body. Transport failures and non-2xx
// responses are returned as *NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, ep Endpoint) (*Payload, error) {
	client := f.client
	if ep.InsecureTLS {
		client = f.insecure
		f.logger.WarnContext(ctx, "tls_verification_disabled",
			slog.String("source", ep.Name),
			slog.String("url", ep.URL))
	}

	start := time.Now()
	resp, err := client.R().SetContext(ctx).Get(ep.URL)
	if err != nil {
		f.logger.ErrorContext(ctx, "fetch_failed",
			slog.String("source", ep.Name),
			slog.String("error", err.Error()))
		return nil, &NetworkError{URL: ep.URL, Cause: err}
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		f.logger.ErrorContext(ctx, "fetch_failed",
			slog.String("source", ep.Name),
			slog.Int("status", resp.StatusCode()))
		return nil, &NetworkError{URL: ep.URL, StatusCode: resp.StatusCode()}
	}

	body := resp.Body()
	f.logger.InfoContext(ctx, "fetch_completed",
		slog.String("source", ep.Name),
		slog.String("kind", ep.Kind.String()),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return &Payload{
		Endpoint:    ep,
		Body:        body,
		ContentType: resp.Header().Get("Content-Type"),
		FetchedAt:   time.Now().UTC(),
	}, nil
}
