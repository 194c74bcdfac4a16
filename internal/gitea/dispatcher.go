package gitea

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/datapilot-canada/gitea-mcp/internal/common"
	"github.com/datapilot-canada/gitea-mcp/internal/config"
)

// maxResponseSize caps the response body read to prevent OOM from
// unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// apiPrefix is prepended to every endpoint path on the configured base URL.
const apiPrefix = "/api/v1"

// Dispatcher turns one tool invocation into one authenticated HTTP request
// against the Gitea API and classifies the outcome. It is stateless and safe
// for concurrent use: the registry, credential, and HTTP client are read-only
// after construction.
type Dispatcher struct {
	baseURL    string
	token      string
	registry   *Registry
	httpClient *http.Client
	logger     *common.Logger
}

// NewDispatcher builds a dispatcher from validated configuration. The HTTP
// client is constructed once: bounded timeout, optional custom CA bundle
// appended to the system trust pool.
func NewDispatcher(cfg *config.Config, logger *common.Logger) (*Dispatcher, error) {
	client := &http.Client{Timeout: cfg.Gitea.GetTimeout()}

	if cfg.Gitea.CABundle != "" {
		pem, err := os.ReadFile(cfg.Gitea.CABundle)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle %s: %w", cfg.Gitea.CABundle, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA bundle %s contains no usable certificates", cfg.Gitea.CABundle)
		}
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
		}
	}

	return &Dispatcher{
		baseURL:    strings.TrimRight(cfg.Gitea.BaseURL, "/"),
		token:      cfg.Gitea.Token,
		registry:   NewRegistry(),
		httpClient: client,
		logger:     logger,
	}, nil
}

// Registry exposes the operation catalogue for tool registration.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// WithLogger returns a shallow copy using the given logger. Handlers use this
// to scope a correlation ID to one invocation.
func (d *Dispatcher) WithLogger(logger *common.Logger) *Dispatcher {
	copied := *d
	copied.logger = logger
	return &copied
}

// Invoke resolves the named operation, validates the arguments, performs a
// single HTTP request, and returns the decoded payload. A non-nil error is
// always a *Failure. Validation and lookup failures never reach the network,
// and no failure is retried here; retry policy belongs to the caller.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]interface{}) (json.RawMessage, error) {
	ep, err := d.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	normalized, vErr := validateArgs(ep, args)
	if vErr != nil {
		return nil, vErr
	}

	req, bErr := d.buildRequest(ctx, ep, normalized)
	if bErr != nil {
		return nil, bErr
	}

	d.logger.Debug().Str("tool", name).Str("method", req.Method).Str("path", req.URL.Path).Msg("dispatch request")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			d.logger.Warn().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Msg("dispatch cancelled")
			return nil, failf(KindCancelled, "invocation cancelled: %v", err)
		}
		d.logger.Error().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("dispatch request failed")
		return nil, failf(KindTransportError, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, failf(KindTransportError, "failed to read response: %v", err)
	}

	d.logger.Debug().Str("tool", name).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("dispatch response")

	return classify(resp.StatusCode, body)
}

// buildRequest shapes the validated arguments into an HTTP request:
// path placeholders substituted (URL-escaped), query params assembled with
// at-default values omitted, body fields assembled with declared defaults
// applied, and the credential attached.
func (d *Dispatcher) buildRequest(ctx context.Context, ep Endpoint, args map[string]interface{}) (*http.Request, *Failure) {
	path := ep.Path
	query := url.Values{}
	body := map[string]interface{}{}
	hasBodyParams := false

	for _, p := range ep.Params {
		val, present := args[p.Name]
		switch p.In {
		case InPath:
			// Required-ness already enforced by validateArgs.
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(queryValue(val)))
		case InQuery:
			if !present || atDefault(p, val) {
				continue
			}
			query.Set(p.wireName(), queryValue(val))
		case InBody:
			hasBodyParams = true
			if !present {
				if p.Default != nil {
					body[p.wireName()] = p.Default
				}
				continue
			}
			body[p.wireName()] = val
		}
	}

	target := d.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if hasBodyParams && len(body) > 0 {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, failf(KindInvalidArgument, "failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target, bodyReader)
	if err != nil {
		return nil, failf(KindTransportError, "failed to build request: %v", err)
	}

	// Gitea token scheme. The credential is never logged or echoed in results.
	req.Header.Set("Authorization", "token "+d.token)
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// classify maps an HTTP response to a payload or a typed failure.
func classify(status int, body []byte) (json.RawMessage, error) {
	switch {
	case status >= 200 && status < 300:
		if len(bytes.TrimSpace(body)) == 0 {
			// 204 or empty 2xx (e.g. delete_repository)
			return json.RawMessage("null"), nil
		}
		if !json.Valid(body) {
			return nil, upstreamFailf(KindMalformedResponse, status, "upstream returned %d with a non-JSON body", status)
		}
		return json.RawMessage(body), nil

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, upstreamFailf(KindAuthError, status, "authentication rejected: %s", upstreamMessage(body))

	case status == http.StatusNotFound:
		return nil, upstreamFailf(KindNotFound, status, "not found: %s", upstreamMessage(body))

	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return nil, upstreamFailf(KindConflict, status, "%s", upstreamMessage(body))

	default:
		return nil, upstreamFailf(KindUpstreamError, status, "upstream returned %d: %s", status, upstreamMessage(body))
	}
}

// upstreamMessage extracts a best-effort detail message from a Gitea error
// body: the "message" field, then "errors", then a trimmed body snippet.
func upstreamMessage(body []byte) string {
	var errResp struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if len(errResp.Errors) > 0 {
			return strings.Join(errResp.Errors, "; ")
		}
	}
	const maxSnippet = 200
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}
	if snippet == "" {
		return "no detail supplied"
	}
	return snippet
}
