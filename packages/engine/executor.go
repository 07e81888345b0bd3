package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/pluginerr"
)

const (
	// MaxRedirects bounds the redirect/digest attempt loop.
	MaxRedirects = 5
	// DefaultTimeout is the default per-invocation timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodySize caps buffered response bodies, configured once
	// process-wide.
	DefaultMaxBodySize = 10 * 1024 * 1024
)

// Executor sends materialized requests and owns the bounded
// redirect/digest attempt loop.
type Executor struct {
	client      *http.Client
	pool        *Pool
	logger      zerolog.Logger
	maxBodySize int64
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		e.client = client
	}
}

// WithPool injects the shared outbound execution pool.
func WithPool(pool *Pool) ExecutorOption {
	return func(e *Executor) {
		e.pool = pool
	}
}

// WithLogger sets the structured logger used for attempt tracing.
func WithLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMaxBodySize overrides the buffered response body cap.
func WithMaxBodySize(n int64) ExecutorOption {
	return func(e *Executor) {
		e.maxBodySize = n
	}
}

// WithTimeout sets the per-invocation timeout on the underlying client.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.client.Timeout = d
	}
}

// NewExecutor builds an executor. Redirects are followed by the attempt
// loop itself, never by the underlying client.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		pool:        NewPool(DefaultPoolSize),
		logger:      zerolog.Nop(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute materializes the URI and body from the context and runs the
// attempt loop: redirects consume attempts, a digest challenge appends a
// header mutation and retries the same URI, and the loop fails once the
// attempt counter reaches MaxRedirects.
func (e *Executor) Execute(ctx context.Context, rc *RequestContext) (*ExecutionResult, error) {
	uri, err := BuildURI(rc.URL, rc.URLParams, rc.EncodeParams)
	if err != nil {
		return nil, err
	}

	body, err := EncodeBody(rc.Method, rc.ContentType, rc.Body, rc.BodyFormData, rc.EncodeParams)
	if err != nil {
		return nil, err
	}

	cookies := ForwardedCookies(rc.ForwardAllCookies, rc.ForwardCookies, rc.Cookies)
	mutations := initialMutations(rc.Auth)

	executionID := uuid.NewString()
	logger := e.logger.With().Str("execution_id", executionID).Logger()

	digestTried := false
	for attempt := 0; ; attempt++ {
		if attempt == MaxRedirects {
			return nil, pluginerr.NewExecutionError(pluginerr.CodeReachRedirectLimit,
				"reached the redirect limit of %d", MaxRedirects)
		}

		req, err := e.buildAttempt(ctx, rc, uri, body, cookies, mutations)
		if err != nil {
			return nil, err
		}

		logger.Debug().Int("attempt", attempt).Str("method", rc.Method).Str("url", uri.String()).Msg("sending request")

		resp, respBody, err := e.send(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			redirect, err := redirectTarget(resp)
			if err != nil {
				return nil, err
			}
			logger.Debug().Int("status", resp.StatusCode).Str("location", redirect.String()).Msg("following redirect")
			uri = redirect
			continue
		}

		// A digest challenge gets exactly one retry with computed
		// credentials; a second 401 is final.
		if rc.Auth.Type == config.AuthDigest && !digestTried && isDigestChallenge(resp) {
			mutation, err := digestMutation(rc.Auth, resp, rc.Method, uri.Path)
			if err != nil {
				return nil, err
			}
			logger.Debug().Msg("received digest challenge, retrying with computed credentials")
			mutations = append(mutations, mutation)
			digestTried = true
			continue
		}

		return Classify(resp.StatusCode, resp.Header, respBody)
	}
}

// buildAttempt constructs a fresh request for one attempt from the
// immutable context plus the accumulated header mutations, applied in
// order.
func (e *Executor) buildAttempt(
	ctx context.Context,
	rc *RequestContext,
	uri *url.URL,
	body *EncodedBody,
	cookies []*http.Cookie,
	mutations []HeaderMutation,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, rc.Method, uri.String(), bytes.NewReader(body.Bytes))
	if err != nil {
		return nil, pluginerr.WrapExecutionError(pluginerr.CodeQueryExecutionError, err, "%s", err.Error())
	}

	for key, value := range rc.Headers {
		req.Header.Set(key, value)
	}
	// Multipart bodies carry the generated boundary in their content
	// type, which must win over the configured header.
	if body.ContentType != "" && body.ContentType != rc.ContentType {
		req.Header.Set("Content-Type", body.ContentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	for _, mutate := range mutations {
		mutate(req.Header)
	}
	return req, nil
}

// send performs one request through the bounded pool and buffers the
// response body up to the configured cap.
func (e *Executor) send(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	if err := e.pool.Acquire(ctx); err != nil {
		return nil, nil, mapTransportError(err)
	}
	defer e.pool.Release()

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize+1))
	if err != nil {
		return nil, nil, mapTransportError(err)
	}
	if int64(len(body)) > e.maxBodySize {
		return nil, nil, pluginerr.NewExecutionError(pluginerr.CodeQueryExecutionError,
			"response body exceeds the in-memory limit of %d bytes", e.maxBodySize)
	}
	return resp, body, nil
}

func redirectTarget(resp *http.Response) (*url.URL, error) {
	locations := resp.Header.Values("Location")
	if len(locations) == 0 {
		return nil, pluginerr.NewExecutionError(pluginerr.CodeQueryExecutionError,
			"redirect response %d carries no Location header", resp.StatusCode)
	}
	// TODO: resolve relative Location values against the origin of the
	// prior request instead of using them as-is.
	target, err := url.Parse(locations[0])
	if err != nil {
		return nil, pluginerr.WrapExecutionError(pluginerr.CodeQueryExecutionError, err, "%s", err.Error())
	}
	return target, nil
}

// mapTransportError folds transport failures into the error taxonomy,
// keeping timeouts distinct from generic execution failures.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pluginerr.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pluginerr.NewTimeoutError(err)
	}
	return pluginerr.WrapExecutionError(pluginerr.CodeQueryExecutionError, err, "%s", err.Error())
}
