package gatewaytests

import (
	"github.com/gatewayadmin/admin-contract-tests/admindef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noServicesReason = "no services available to bind routes to"

func DoRouteCreationTests(t *T) {
	var services []admindef.Resource
	t.RunPrerequisite("list services", func(t *T) {
		page := t.Services().List(admindef.ListParams{SortDesc: true, Size: pageSize})
		require.NotEmpty(t, page.Data, "expected at least one service to bind routes to")
		for _, svc := range page.Data {
			t.Debug("Found service %q with ID %s", svc.Name, svc.ID)
			t.env.ledger.serviceListed(svc.ID)
		}
		services = page.Data
	})

	if len(services) == 0 {
		for _, tc := range t.Cases().CreateRoute {
			t.Run(tc.Name, func(t *T) {
				t.SkipWithReason(noServicesReason)
			})
		}
		return
	}

	for _, svc := range services {
		svc := svc
		label := svc.Name
		if label == "" {
			label = svc.ID
		}
		t.Run("service "+label, func(t *T) {
			for _, tc := range t.Cases().CreateRoute {
				tc := tc
				t.Run(tc.Name, func(t *T) {
					doRouteCreation(t, svc, tc.Name, tc.Tags, tc.Paths)
				})
			}
		})
	}
}

func doRouteCreation(t *T, svc admindef.Resource, name string, tags, paths []string) {
	routes := t.Routes()
	if existing, found := routes.Lookup(name); found {
		t.Debug("Deleting existing route %q with ID %s", name, existing.ID)
		routes.TryDeleteByID(existing.ID)
	}

	created := routes.Create(admindef.NewRouteParams(name, tags, paths, svc.ID), name, tags)
	require.NotNil(t, created.Service, "created route has no service reference")
	assert.Equal(t, nonNil(paths), nonNil(created.Paths), "created route had the wrong paths")
	assert.Equal(t, svc.ID, created.Service.ID, "route is bound to the wrong service")
	assert.True(t, t.env.ledger.wasServiceListed(created.Service.ID),
		"route is bound to service %s, which the service listing did not return", created.Service.ID)
}
