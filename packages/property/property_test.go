package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHeaders_QueryWinsCaseInsensitive(t *testing.T) {
	ds := []Property{
		{Key: "Content-Type", Value: "text/plain"},
		{Key: "X-Tenant", Value: "acme"},
	}
	query := []Property{
		{Key: "content-type", Value: "application/json"},
	}

	merged := MergeHeaders(ds, query)

	assert.Equal(t, "application/json", merged["content-type"])
	assert.Equal(t, "acme", merged["x-tenant"])
	assert.Len(t, merged, 2)
}

func TestMergeHeaders_SkipsBlankEntries(t *testing.T) {
	merged := MergeHeaders([]Property{
		{Key: "", Value: "nope"},
		{Key: "X-Empty", Value: "  "},
		{Key: "  X-Kept  ", Value: "yes"},
	}, nil)

	assert.Equal(t, map[string]string{"x-kept": "yes"}, merged)
}

func TestMergeParams_QueryOverridesDatasource(t *testing.T) {
	ds := []Property{{Key: "limit", Value: "10"}, {Key: "page", Value: "1"}}
	query := []Property{{Key: "limit", Value: "50"}}

	merged := MergeParams(ds, query)

	assert.Equal(t, "50", merged["limit"])
	assert.Equal(t, "1", merged["page"])
}

func TestMergeFormData_FirstOccurrenceWins(t *testing.T) {
	ds := []Property{{Key: "name", Value: "datasource"}, {Key: "role", Value: "admin"}}
	query := []Property{{Key: "name", Value: "query"}, {Key: "team", Value: "infra"}}

	merged := MergeFormData(ds, query)

	assert.Equal(t, []Property{
		{Key: "name", Value: "datasource"},
		{Key: "role", Value: "admin"},
		{Key: "team", Value: "infra"},
	}, merged)
}

func TestMergeFormData_DropsEmptyKeys(t *testing.T) {
	merged := MergeFormData([]Property{{Key: "", Value: "x"}}, []Property{{Key: "a", Value: "1"}})
	assert.Equal(t, []Property{{Key: "a", Value: "1"}}, merged)
}

func TestPartition(t *testing.T) {
	params, headers := Partition([]Property{
		{Key: "access_token", Value: "t", Type: KindParam},
		{Key: "authorization", Value: "Bearer t", Type: KindHeader},
		{Key: "ignored", Value: "x", Type: KindBodyForm},
	})

	assert.Len(t, params, 1)
	assert.Equal(t, "access_token", params[0].Key)
	assert.Len(t, headers, 1)
	assert.Equal(t, "authorization", headers[0].Key)
}
