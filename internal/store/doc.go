// Package store provides abstractions for data persistence: the store
// interfaces the service layer depends on, the shared error taxonomy, and
// the transaction helper used to keep composite writes atomic.
package store
