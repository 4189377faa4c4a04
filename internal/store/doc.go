// Package store persists the attendance event log and the derived
// session view in SQLite.
//
// It implements the engine's EventStore and SessionStore interfaces. The
// event log is authoritative; session rows are cache and are only ever
// written through Replace, which swaps a whole user-day inside one
// transaction.
//
// Instants are stored as RFC 3339 UTC text. Day grouping is done by
// querying the UTC range that the fixed-offset calendar day covers, so
// the store and the engine agree on day membership by construction.
package store
