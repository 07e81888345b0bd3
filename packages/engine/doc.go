// Package engine materializes REST queries into concrete HTTP requests
// and executes them.
//
// It merges datasource-level and query-level configuration into an
// immutable per-invocation request context, builds the final URI and
// body, and runs a bounded attempt loop that follows redirects and
// renegotiates digest authentication. Responses are buffered up to a
// configured cap and classified into a typed result (JSON, image,
// binary, or text).
package engine
