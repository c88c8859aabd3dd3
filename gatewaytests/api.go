package gatewaytests

import (
	"context"

	"github.com/gatewayadmin/admin-contract-tests/cases"
	"github.com/gatewayadmin/admin-contract-tests/client"
	"github.com/gatewayadmin/admin-contract-tests/framework"

	"github.com/stretchr/testify/require"
)

// pageSize is the page size of every listing the suite makes.
const pageSize = 30

type environment struct {
	ctx    context.Context
	client *client.AdminClient
	cases  cases.Tables
	ledger *ledger
}

// T represents a test or subtest in the admin API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by our lower-level framework package.
//
// It also carries the handle to the gateway under test. Every request a test makes goes through
// that handle, so the suite never touches global state and can be pointed at an isolated fake.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. The request and resource methods also make assertions of their own, causing
// the test to immediately fail if the gateway responds in an unexpected way.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T, and likewise returns
// false if the subtest failed or was skipped.
func (t *T) Run(name string, action func(*T)) bool {
	return t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// RunPrerequisite runs a subtest that the later subtests of t depend on. Unlike Run, it is not
// subject to the -run and -skip filters, so that selecting one dependent scenario also runs
// what it needs.
func (t *T) RunPrerequisite(name string, action func(*T)) bool {
	return t.context.RunPrerequisite(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// ID returns the full identifier of the test.
func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// DebugLogger returns the logger that collects this test's debug output.
func (t *T) DebugLogger() framework.Logger {
	return t.context.DebugLogger()
}

// SkipWithReason stops the test and reports it as skipped.
func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}


// Cases returns the case tables the suite was started with.
func (t *T) Cases() cases.Tables {
	return t.env.cases
}

// Request sends a request to the admin API.
//
// A transport failure fails the test immediately. So does a status outside the 2xx/3xx range,
// unless the request has AcceptAnyStatus set, in which case the caller is responsible for
// checking the status.
func (t *T) Request(r client.Request) *client.Response {
	resp, err := t.env.client.Do(t.env.ctx, r, t.DebugLogger())
	require.NoError(t, err)
	if !r.AcceptAnyStatus && !resp.IsSuccess() {
		require.Fail(t, "unexpected HTTP status",
			"%s %s returned status %d: %s", r.Method, r.Path, resp.Status, string(resp.Raw))
	}
	return resp
}

// Services returns the lifecycle operations for services.
func (t *T) Services() Resources {
	return Resources{t: t, kind: serviceKind}
}

// Routes returns the lifecycle operations for routes.
func (t *T) Routes() Resources {
	return Resources{t: t, kind: routeKind}
}
