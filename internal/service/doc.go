// Package service implements the controller layer: it translates between
// callers and the stores, enforces uniqueness and existence checks, runs
// composite writes inside transactions, and exposes the narrow error
// contracts the interaction layer depends on.
package service
