package gatewaytests

import (
	"net/http"

	"github.com/gatewayadmin/admin-contract-tests/admindef"
	"github.com/gatewayadmin/admin-contract-tests/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// maxListPages bounds ListAll in case a gateway keeps returning an offset.
const maxListPages = 100

type resourceKind struct {
	singular   string
	collection string
}

var (
	serviceKind = resourceKind{singular: "service", collection: admindef.CollectionServices}
	routeKind   = resourceKind{singular: "route", collection: admindef.CollectionRoutes}
)

// Resources provides the lifecycle operations for one kind of resource, making assertions
// against the test that it was obtained from.
type Resources struct {
	t    *T
	kind resourceKind
}

// EnsureAbsent deletes a resource by name or ID if it exists.
//
// A not-found response counts as success. Any other unsuccessful status is logged, and the test
// continues; if the resource really is still there, the create that follows will fail.
func (m Resources) EnsureAbsent(nameOrID string) client.DeleteResult {
	result, err := m.t.env.client.DeleteResource(m.t.env.ctx, m.kind.collection, nameOrID, m.t.DebugLogger())
	require.NoError(m.t, err)
	switch result.Outcome {
	case client.Deleted:
		m.t.Debug("Deleted existing %s %q (status %d)", m.kind.singular, nameOrID, result.Status)
	case client.ToleratedNotFound:
		m.t.Debug("No existing %s %q (status %d)", m.kind.singular, nameOrID, result.Status)
	default:
		m.t.Debug("Could not delete existing %s %q (status %d), continuing", m.kind.singular, nameOrID, result.Status)
	}
	return result
}

// Create posts a new resource and verifies that the gateway created it as requested: the
// status is 201, the response has an ID, and its name and tags equal the input. Tags must be
// in the same order.
func (m Resources) Create(body interface{}, name string, tags []string) admindef.Resource {
	resp := m.t.Request(client.Request{
		Method:          http.MethodPost,
		Path:            client.CollectionPath(m.kind.collection),
		Body:            body,
		AcceptAnyStatus: true,
	})
	m.t.Debug("%s creation response for %s: %s", m.kind.singular, name, string(resp.Raw))
	require.Equal(m.t, http.StatusCreated, resp.Status,
		"unexpected status creating %s %q: %s", m.kind.singular, name, string(resp.Raw))

	var created admindef.Resource
	require.NoError(m.t, resp.Decode(&created))
	assert.NotEmpty(m.t, created.ID, "created %s had no id", m.kind.singular)
	assert.Equal(m.t, name, created.Name, "created %s had the wrong name", m.kind.singular)
	checkTagsInOrder(m.t, tags, created.Tags)

	m.t.env.ledger.created(m.kind.collection, created)
	return created
}

// List gets one page of the collection, and verifies that the status is 200 and that the
// response has a data array. An empty array is valid.
func (m Resources) List(params admindef.ListParams) admindef.Page {
	resp := m.t.Request(client.Request{
		Method: http.MethodGet,
		Path:   client.CollectionPath(m.kind.collection),
		Query:  client.ListQuery(params),
	})
	require.Equal(m.t, http.StatusOK, resp.Status)
	require.Equal(m.t, ldvalue.ArrayType, resp.Body.GetByKey("data").Type(),
		"expected the %s listing to have a data array, got: %s", m.kind.collection, string(resp.Raw))

	var page admindef.Page
	require.NoError(m.t, resp.Decode(&page))
	return page
}

// ListAll gets every page of the collection by following the offset cursor.
func (m Resources) ListAll(params admindef.ListParams) []admindef.Resource {
	var all []admindef.Resource
	seen := make(map[string]bool)
	for i := 0; i < maxListPages; i++ {
		page := m.List(params)
		all = append(all, page.Data...)
		if page.Offset == "" {
			return all
		}
		if seen[page.Offset] {
			require.Fail(m.t, "listing did not advance", "%s listing returned offset %q twice", m.kind.collection, page.Offset)
		}
		seen[page.Offset] = true
		params.Offset = page.Offset
	}
	require.Fail(m.t, "listing did not end", "%s listing returned more than %d pages", m.kind.collection, maxListPages)
	return nil
}

// Lookup queries the collection by name. It does not fail the test if the query fails; it
// returns false, which sends the caller down the same path as a name that does not exist.
func (m Resources) Lookup(name string) (admindef.Resource, bool) {
	resp := m.t.Request(client.Request{
		Method:          http.MethodGet,
		Path:            client.CollectionPath(m.kind.collection),
		Query:           client.ListQuery(admindef.ListParams{Name: name}),
		AcceptAnyStatus: true,
	})
	if resp.Status != http.StatusOK {
		m.t.Debug("Query for %s %q returned status %d", m.kind.singular, name, resp.Status)
		return admindef.Resource{}, false
	}
	var page admindef.Page
	if err := resp.Decode(&page); err != nil {
		m.t.Debug("Ignoring unreadable %s query result: %s", m.kind.singular, err)
		return admindef.Resource{}, false
	}
	if len(page.Data) == 0 {
		return admindef.Resource{}, false
	}
	return page.Data[0], true
}

// DeleteByID deletes a resource that is known to exist, and verifies that the status is 204.
func (m Resources) DeleteByID(id string) {
	resp := m.t.Request(client.Request{
		Method:          http.MethodDelete,
		Path:            client.EntityPath(m.kind.collection, id),
		AcceptAnyStatus: true,
	})
	require.Equal(m.t, http.StatusNoContent, resp.Status,
		"unexpected status deleting %s %s: %s", m.kind.singular, id, string(resp.Raw))
}

// TryDeleteByID deletes a resource on a best-effort basis. An unsuccessful status is logged
// but does not fail the test, so that a bulk deletion can go on to the remaining resources.
// A transport failure does fail the test, without stopping it.
func (m Resources) TryDeleteByID(id string) client.DeleteResult {
	result, err := m.t.env.client.DeleteResource(m.t.env.ctx, m.kind.collection, id, m.t.DebugLogger())
	if !assert.NoError(m.t, err) {
		return result
	}
	m.t.Debug("DELETE response status for %s ID %s: %d (%s)", m.kind.singular, id, result.Status, result.Outcome)
	return result
}

func checkTagsInOrder(t *T, expected, actual []string) {
	if admindef.TagsEqual(expected, actual) {
		return
	}
	assert.Equal(t, nonNil(expected), nonNil(actual), "tags must equal the input tags in the same order")
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
