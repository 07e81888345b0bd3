package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryConfigFromMap(t *testing.T) {
	cfg, err := QueryConfigFromMap(map[string]any{
		"httpMethod": "post",
		"path":       "/users",
		"body":       `{"name":"{{name}}"}`,
		"headers": []any{
			map[string]any{"key": "Content-Type", "value": "application/json"},
		},
		"disableEncodingParams": true,
	})

	require.NoError(t, err)
	assert.Equal(t, "POST", cfg.HTTPMethod)
	assert.Equal(t, "/users", cfg.Path)
	assert.True(t, cfg.DisableEncodingParams)
	require.Len(t, cfg.Headers, 1)
	assert.Equal(t, "Content-Type", cfg.Headers[0].Key)
}

func TestQueryConfigFromMap_RejectsUnknownMethod(t *testing.T) {
	_, err := QueryConfigFromMap(map[string]any{"httpMethod": "FETCH"})
	assert.Error(t, err)
}

func TestDatasourceConfigFromMap(t *testing.T) {
	cfg, err := DatasourceConfigFromMap(map[string]any{
		"url": "https://api.example.com",
		"authConfig": map[string]any{
			"type":     "BASIC_AUTH",
			"username": "alice",
			"password": "secret",
		},
		"forwardCookies": []any{"session"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.URL)
	assert.Equal(t, AuthBasic, cfg.Auth.Type)
	assert.Equal(t, []string{"session"}, cfg.ForwardCookies)
}

func TestDatasourceConfigFromMap_RequiresURL(t *testing.T) {
	_, err := DatasourceConfigFromMap(map[string]any{"body": "x"})
	assert.Error(t, err)
}

func TestValidateDatasourceConfig(t *testing.T) {
	messages, err := ValidateDatasourceConfig(map[string]any{
		"url": "https://api.example.com",
		"authConfig": map[string]any{
			"type": "BASIC_AUTH",
		},
	})

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestValidateDatasourceConfig_ReportsViolations(t *testing.T) {
	messages, err := ValidateDatasourceConfig(map[string]any{
		"authConfig": map[string]any{"type": "KERBEROS"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, messages)
}
