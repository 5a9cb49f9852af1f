// Package mocks provides hand-written fakes of the store interfaces for
// unit tests: map-backed default behavior, per-method override functions,
// and call tracking for write operations.
package mocks
