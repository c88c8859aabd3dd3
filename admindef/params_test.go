package admindef

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestServiceParamsJSON(t *testing.T) {
	data, err := json.Marshal(NewServiceParams("service1", []string{"service1"}))
	require.NoError(t, err)
	v := ldvalue.Parse(data)

	assert.Equal(t, "service1", v.GetByKey("name").StringValue())
	assert.Equal(t, `["service1"]`, v.GetByKey("tags").JSONString())
	assert.Equal(t, 443, v.GetByKey("port").IntValue())
	assert.Equal(t, DefaultUpstreamURL, v.GetByKey("url").StringValue())
	assert.Equal(t, 60000, v.GetByKey("read_timeout").IntValue())
	assert.Equal(t, 5, v.GetByKey("retries").IntValue())
	assert.True(t, v.GetByKey("ca_certificates").IsNull())
	assert.Contains(t, v.Keys(), "client_certificate")
}

func TestServiceParamsNilTagsAreEmptyArray(t *testing.T) {
	data, err := json.Marshal(NewServiceParams("x", nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", ldvalue.Parse(data).GetByKey("tags").JSONString())
}

func TestRouteParamsJSON(t *testing.T) {
	data, err := json.Marshal(NewRouteParams("route1", []string{"a", "b"}, []string{"/route1"}, "svc-id"))
	require.NoError(t, err)
	v := ldvalue.Parse(data)

	assert.Equal(t, "svc-id", v.GetByKey("service").GetByKey("id").StringValue())
	assert.Equal(t, `["http","https"]`, v.GetByKey("protocols").JSONString())
	assert.Equal(t, `["/route1"]`, v.GetByKey("paths").JSONString())
	assert.Equal(t, 426, v.GetByKey("https_redirect_status_code").IntValue())
	assert.Equal(t, "v0", v.GetByKey("path_handling").StringValue())
	assert.True(t, v.GetByKey("strip_path").BoolValue())
	assert.False(t, v.GetByKey("preserve_host").BoolValue())
	for _, key := range []string{"methods", "hosts", "headers", "sources", "destinations", "snis"} {
		assert.Contains(t, v.Keys(), key)
		assert.True(t, v.GetByKey(key).IsNull(), key)
	}
}

func TestPageDecoding(t *testing.T) {
	var p Page
	require.NoError(t, json.Unmarshal([]byte(
		`{"data":[{"id":"1","name":"r","tags":null,"service":{"id":"s"}}],"offset":"abc","next":"/x"}`), &p))
	require.Len(t, p.Data, 1)
	assert.Equal(t, "s", p.Data[0].Service.ID)
	assert.Nil(t, p.Data[0].Tags)
	assert.Equal(t, "abc", p.Offset)
}

func TestTagsEqual(t *testing.T) {
	assert.True(t, TagsEqual(nil, []string{}))
	assert.True(t, TagsEqual([]string{"a", "b"}, []string{"a", "b"}))
	assert.False(t, TagsEqual([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, TagsEqual([]string{"a"}, []string{"a", "b"}))
}

func TestProperty_TagsEqualIsOrderSensitive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a tag list equals a copy of itself", prop.ForAll(
		func(tags []string) bool {
			return TagsEqual(tags, append([]string(nil), tags...))
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("swapping two different tags breaks equality", prop.ForAll(
		func(tags []string, i, j int) bool {
			if len(tags) < 2 {
				return true
			}
			i, j = i%len(tags), j%len(tags)
			if tags[i] == tags[j] {
				return true
			}
			swapped := append([]string(nil), tags...)
			swapped[i], swapped[j] = swapped[j], swapped[i]
			return !TagsEqual(tags, swapped)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
