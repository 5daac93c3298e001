// Package testutil contains helpers used across tests to reduce boilerplate
// when constructing peers, chunked streams and frames. They are not intended
// for production usage.
package testutil
