package gatewaytests

import (
	"github.com/gatewayadmin/admin-contract-tests/admindef"
	"github.com/gatewayadmin/admin-contract-tests/client"

	"github.com/stretchr/testify/assert"
)

func DoRouteTeardownTests(t *T) {
	t.Run("delete each route", func(t *T) {
		deleteAll(t, t.Routes(), admindef.CollectionRoutes)
	})
	t.Run("no routes remain", func(t *T) {
		page := t.Routes().List(admindef.ListParams{SortDesc: true, Size: pageSize})
		assert.Empty(t, page.Data, "routes were left over after teardown")
	})
}

func DoServiceTeardownTests(t *T) {
	t.Run("delete each service", func(t *T) {
		deleteAll(t, t.Services(), admindef.CollectionServices)
	})
	t.Run("no services remain", func(t *T) {
		page := t.Services().List(admindef.ListParams{SortBy: "path", Size: pageSize})
		assert.Empty(t, page.Data, "services were left over after teardown")
	})
}

// deleteAll deletes every resource in the collection. A resource that cannot be deleted is
// logged and skipped over; the "remain" scenario that follows reports it.
func deleteAll(t *T, resources Resources, collection string) {
	all := resources.ListAll(admindef.ListParams{SortDesc: true, Size: pageSize})
	if t.env.ledger.createdCount(collection) > 0 {
		assert.NotEmpty(t, all, "expected the %s created by this run to be listed", collection)
	}
	for _, r := range all {
		result := resources.TryDeleteByID(r.ID)
		if result.Outcome != client.Deleted {
			t.Debug("Failed to delete %s %q (ID %s): status %d", resources.kind.singular, r.Name, r.ID, result.Status)
		}
	}
}
