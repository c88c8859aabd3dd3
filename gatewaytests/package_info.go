// Package gatewaytests contains the admin API contract tests themselves and their supporting
// API: the test scope type T, and the lifecycle operations that create, look up, list, and
// delete gateway resources while making assertions about the responses.
//
// Infrastructure that is not specific to the admin API, such as test identifiers, filtering,
// and captured debug output, is in the lower-level framework package.
package gatewaytests
