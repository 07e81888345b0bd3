// Package config holds the datasource-level and query-level configuration
// records consumed by the query engine, plus helpers for decoding them
// from the untyped maps the plugin host hands over.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/datalink-dev/restquery/packages/property"
)

// AuthType enumerates the supported authentication schemes. The zero
// value means no authentication.
type AuthType string

const (
	AuthNone                   AuthType = ""
	AuthBasic                  AuthType = "BASIC_AUTH"
	AuthDigest                 AuthType = "DIGEST_AUTH"
	AuthOAuth2InheritFromLogin AuthType = "OAUTH2_INHERIT_FROM_LOGIN"
)

// AuthConfig is the closed set of authentication variants. Basic and
// Digest share the credential shape; digest challenge state is computed
// per request and never stored here.
type AuthConfig struct {
	Type     AuthType `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
}

// DatasourceConfig is the stored, connection-level configuration: base
// URL plus the defaults layered under every query. Treated as read-only
// per invocation.
type DatasourceConfig struct {
	URL               string              `json:"url" yaml:"url" mapstructure:"url" validate:"required"`
	Body              string              `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`
	Headers           []property.Property `json:"headers,omitempty" yaml:"headers,omitempty" mapstructure:"headers"`
	Params            []property.Property `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	BodyFormData      []property.Property `json:"bodyFormData,omitempty" yaml:"bodyFormData,omitempty" mapstructure:"bodyFormData"`
	Auth              AuthConfig          `json:"authConfig,omitempty" yaml:"authConfig,omitempty" mapstructure:"authConfig"`
	ForwardCookies    []string            `json:"forwardCookies,omitempty" yaml:"forwardCookies,omitempty" mapstructure:"forwardCookies"`
	ForwardAllCookies bool                `json:"forwardAllCookies,omitempty" yaml:"forwardAllCookies,omitempty" mapstructure:"forwardAllCookies"`
}

// QueryConfig is the per-query configuration layered atop the datasource
// defaults.
type QueryConfig struct {
	HTTPMethod            string              `json:"httpMethod" yaml:"httpMethod" mapstructure:"httpMethod" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS TRACE"`
	Path                  string              `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Body                  string              `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`
	Params                []property.Property `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Headers               []property.Property `json:"headers,omitempty" yaml:"headers,omitempty" mapstructure:"headers"`
	BodyFormData          []property.Property `json:"bodyFormData,omitempty" yaml:"bodyFormData,omitempty" mapstructure:"bodyFormData"`
	DisableEncodingParams bool                `json:"disableEncodingParams,omitempty" yaml:"disableEncodingParams,omitempty" mapstructure:"disableEncodingParams"`
}

var validate = validator.New()

// QueryConfigFromMap decodes and validates a query configuration handed
// over as an untyped map. The HTTP method is upper-cased before
// validation.
func QueryConfigFromMap(raw map[string]any) (*QueryConfig, error) {
	var cfg QueryConfig
	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode query config: %w", err)
	}
	cfg.HTTPMethod = strings.ToUpper(strings.TrimSpace(cfg.HTTPMethod))
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid query config: %w", err)
	}
	return &cfg, nil
}

// DatasourceConfigFromMap decodes and validates a datasource
// configuration handed over as an untyped map.
func DatasourceConfigFromMap(raw map[string]any) (*DatasourceConfig, error) {
	var cfg DatasourceConfig
	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode datasource config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid datasource config: %w", err)
	}
	return &cfg, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
