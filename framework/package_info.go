// Package framework contains the low-level implementation of test harness infrastructure
// that does not know anything about the gateway admin API.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Tests are nested; the identifier of a test is the path of names
// from the root.
//
// 2. Each test has its own capturing debug logger. Its output is attached to the test's
// result, and the TestLogger decides whether to show it.
//
// 3. A Filter, usually built from -run/-skip regular expressions, decides which tests run.
//
// The domain-specific code that knows what is being tested is responsible for providing
// a domain-specific test API on top of the test context.
package framework
