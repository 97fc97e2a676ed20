package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/retry"
	"git.home.luguber.info/inful/projectsite/internal/version"
)

// maxDownloadBytes caps manifest and script downloads.
const maxDownloadBytes = 8 << 20

// BaseForge provides the HTTP plumbing shared by release clients.
type BaseForge struct {
	httpClient *http.Client
	apiURL     string
	token      string
	timeout    time.Duration
	policy     retry.Policy

	authHeaderPrefix string
	customHeaders    map[string]string
}

// NewBaseForge creates a BaseForge. A zero timeout disables the per-request deadline.
func NewBaseForge(httpClient *http.Client, apiURL, token string, timeout time.Duration, policy retry.Policy) *BaseForge {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BaseForge{
		httpClient:       httpClient,
		apiURL:           apiURL,
		token:            token,
		timeout:          timeout,
		policy:           policy,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
	}
}

// SetAuthHeaderPrefix customizes the authorization header format.
func (b *BaseForge) SetAuthHeaderPrefix(prefix string) {
	b.authHeaderPrefix = prefix
}

// SetCustomHeader sets a header sent with every API request.
func (b *BaseForge) SetCustomHeader(key, value string) {
	b.customHeaders[key] = value
}

// NewRequest builds a GET request for an endpoint relative to the API URL.
// Query strings in endpoint are preserved.
func (b *BaseForge) NewRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(b.apiURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", b.apiURL).
			Build()
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = path.Join(basePath, cleanEndpoint)
	if rawQuery != "" {
		u.RawQuery = rawQuery
	}
	return b.newRequest(ctx, u.String(), true)
}

func (b *BaseForge) newRequest(ctx context.Context, target string, api bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("url", target).
			Build()
	}
	if b.token != "" {
		req.Header.Set("Authorization", b.authHeaderPrefix+b.token)
	}
	req.Header.Set("User-Agent", "projectsite/"+version.Version)
	if api {
		for key, value := range b.customHeaders {
			req.Header.Set(key, value)
		}
	}
	return req, nil
}

// DoRequest executes req under the per-request timeout and decodes a JSON response
// into result. Transient failures are retried per the configured policy.
func (b *BaseForge) DoRequest(req *http.Request, result any) (http.Header, error) {
	var header http.Header
	err := b.policy.Do(req.Context(), IsRetryable, func(ctx context.Context) error {
		body, h, err := b.do(ctx, req)
		if err != nil {
			return err
		}
		header = h
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(body, result); err != nil {
			return errors.SourceUnreachableError("failed to decode response").
				WithCause(err).
				WithContext("url", req.URL.String()).
				Build()
		}
		return nil
	})
	return header, err
}

// Download fetches target as raw bytes, without API headers.
func (b *BaseForge) Download(ctx context.Context, target string) ([]byte, error) {
	req, err := b.newRequest(ctx, target, false)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	var data []byte
	err = b.policy.Do(ctx, IsRetryable, func(ctx context.Context) error {
		body, _, err := b.do(ctx, req)
		data = body
		return err
	})
	return data, err
}

func (b *BaseForge) do(ctx context.Context, req *http.Request) ([]byte, http.Header, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	resp, err := b.httpClient.Do(req.Clone(ctx))
	if err != nil {
		retryable := ctx.Err() == nil
		return nil, nil, errors.SourceUnreachableError("failed to execute request").
			WithCause(err).
			WithContext("url", req.URL.String()).
			WithContext(retryableKey, retryable).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

		msg := fmt.Sprintf("release source error: %s", resp.Status)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			msg = "release source denied access: " + resp.Status
		case http.StatusNotFound:
			msg = "repository or release not found"
		}
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests

		return nil, nil, errors.SourceUnreachableError(msg).
			WithContext("status", resp.Status).
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", bodyStr).
			WithContext(retryableKey, retryable).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, nil, errors.SourceUnreachableError("failed to read response").
			WithCause(err).
			WithContext("url", req.URL.String()).
			WithContext(retryableKey, ctx.Err() == nil).
			Build()
	}
	return body, resp.Header, nil
}

// PaginatedFetch requests baseEndpoint page by page until fetchPage reports no more
// results or a page comes back short.
func PaginatedFetch[T any](
	ctx context.Context,
	baseEndpoint string,
	pageSize int,
	fetchPage func(endpoint string) ([]T, error),
) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sep := "?"
		if strings.Contains(baseEndpoint, "?") {
			sep = "&"
		}
		endpoint := fmt.Sprintf("%s%sper_page=%d&page=%d", baseEndpoint, sep, pageSize, page)

		items, err := fetchPage(endpoint)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
	}
}
