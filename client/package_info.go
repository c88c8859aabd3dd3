// Package client is the HTTP adapter between the test suite and the gateway admin API.
//
// It knows the URL layout and the JSON encoding of requests, and it classifies responses,
// but it makes no assertions: deciding whether a status is a failure is up to the caller.
package client
