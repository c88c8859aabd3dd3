package gatewaytests

import (
	"context"

	"github.com/gatewayadmin/admin-contract-tests/cases"
	"github.com/gatewayadmin/admin-contract-tests/client"
	"github.com/gatewayadmin/admin-contract-tests/framework"
)

// RunTestSuite runs every phase of the suite in order against the gateway that adminClient
// points to. Cancelling ctx aborts any request in progress, and every remaining scenario
// then fails without waiting on the gateway.
func RunTestSuite(
	ctx context.Context,
	adminClient *client.AdminClient,
	tables cases.Tables,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return runSuite(&environment{
		ctx:    ctx,
		client: adminClient,
		cases:  tables,
		ledger: newLedger(),
	}, filter, testLogger)
}

func runSuite(env *environment, filter framework.Filter, testLogger framework.TestLogger) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("validate services", DoServiceValidationTests)
		t.Run("create services", DoServiceCreationTests)
		t.Run("create routes", DoRouteCreationTests)
		t.Run("delete routes", DoRouteTeardownTests)
		t.Run("delete services", DoServiceTeardownTests)
	})
}
