package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datalink-dev/restquery/packages/property"
)

func TestRender_Substitution(t *testing.T) {
	r := Default{}
	params := map[string]any{"name": "Bob", "id": 5}

	assert.Equal(t, "/users/5", r.Render("/users/{{id}}", params))
	assert.Equal(t, "hello Bob", r.Render("hello {{ name }}", params))
}

func TestRender_UnknownPlaceholderUntouched(t *testing.T) {
	r := Default{}
	assert.Equal(t, "/users/{{missing}}", r.Render("/users/{{missing}}", nil))
}

func TestRenderJSON_EscapesStrings(t *testing.T) {
	r := Default{}
	params := map[string]any{"name": `Bo"b`}

	out := r.RenderJSON(`{"name":"{{name}}"}`, params)

	assert.Equal(t, `{"name":"Bo\"b"}`, out)
}

func TestRenderJSON_NonStringLiteral(t *testing.T) {
	r := Default{}
	out := r.RenderJSON(`{"count":{{count}}}`, map[string]any{"count": 3})
	assert.Equal(t, `{"count":3}`, out)
}

func TestRenderProperties(t *testing.T) {
	r := Default{}
	props := []property.Property{
		{Key: "x-{{env}}", Value: "{{token}}", Type: property.KindHeader},
	}

	rendered := RenderProperties(r, props, map[string]any{"env": "prod", "token": "abc"})

	assert.Equal(t, "x-prod", rendered[0].Key)
	assert.Equal(t, "abc", rendered[0].Value)
	assert.Equal(t, property.KindHeader, rendered[0].Type)
}
