// Package store persists the learner profile and the interaction log.
//
// The store is backed by SQLite through GORM with the glebarez pure-Go
// driver (no CGO). It holds exactly the state the profile and logging
// tools need: one learner profile row and an append-only interaction
// table.
package store
