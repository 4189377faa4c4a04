// Package record defines the attendance domain types shared across the
// engine, store, and CLI layers.
//
// The event log is the source of truth. Sessions are a derived view that
// is thrown away and rebuilt whenever a day's events change; nothing may
// treat a stored session as authoritative.
package record
