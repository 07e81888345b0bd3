// Package plugin exposes the data-connector surface of the REST query
// engine: query execution plus the connection lifecycle stubs the plugin
// host expects. Connections are stateless placeholders; all real work
// happens per invocation.
package plugin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/datalink-dev/restquery/packages/config"
	"github.com/datalink-dev/restquery/packages/engine"
	"github.com/datalink-dev/restquery/packages/template"
)

// Connection is an opaque placeholder. Creation and destruction are
// no-ops; the engine holds no per-connection state.
type Connection struct{}

// TestResult reports the outcome of a connection test.
type TestResult struct {
	Success bool
	Message string
}

// Engine is the REST query engine plugin.
type Engine struct {
	executor *engine.Executor
	renderer template.Renderer
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor replaces the default executor.
func WithExecutor(executor *engine.Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// WithRenderer replaces the default template renderer.
func WithRenderer(renderer template.Renderer) Option {
	return func(e *Engine) {
		e.renderer = renderer
	}
}

// WithLogger sets the logger handed down to the executor.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an engine with a default executor, pool, and renderer.
func New(opts ...Option) *Engine {
	e := &Engine{
		renderer: template.Default{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.executor == nil {
		e.executor = engine.NewExecutor(engine.WithLogger(e.logger))
	}
	return e
}

// ExecuteQuery materializes and executes one REST query. Configuration
// errors detected while building the request context surface as typed
// errors; failures inside the execution pipeline come back inside the
// result instead of as a returned error.
func (e *Engine) ExecuteQuery(
	ctx context.Context,
	_ *Connection,
	ds *config.DatasourceConfig,
	query *config.QueryConfig,
	params map[string]any,
	session *engine.Session,
) (*engine.ExecutionResult, error) {
	rc, err := engine.BuildContext(ds, query, params, session, e.renderer)
	if err != nil {
		return nil, err
	}

	// Inherited login credentials may add URL params and headers, so
	// they are resolved before the URI and body are materialized.
	if err := engine.InjectInheritedCredentials(ctx, rc); err != nil {
		return nil, err
	}

	result, err := e.executor.Execute(ctx, rc)
	if err != nil {
		return engine.ErrorResult(err), nil
	}
	return result, nil
}

// CreateConnection returns a stateless placeholder connection.
func (e *Engine) CreateConnection(_ context.Context, _ *config.DatasourceConfig) (*Connection, error) {
	return &Connection{}, nil
}

// DestroyConnection is a no-op.
func (e *Engine) DestroyConnection(_ context.Context, _ *Connection) error {
	return nil
}

// TestConnection always reports success; there is no connection state to
// probe.
func (e *Engine) TestConnection(_ context.Context, _ *config.DatasourceConfig) *TestResult {
	return &TestResult{Success: true}
}

// ValidateConfig checks a raw datasource configuration map and returns
// one message per violation.
func (e *Engine) ValidateConfig(raw map[string]any) ([]string, error) {
	return config.ValidateDatasourceConfig(raw)
}
