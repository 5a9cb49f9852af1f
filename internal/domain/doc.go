// Package domain defines the core business entities of the college-match
// application: universities, accounts, saved-school associations, and
// search criteria. Entities validate themselves; no package here touches
// persistence.
package domain
