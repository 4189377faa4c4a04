// Package engine holds the attendance core: candidate validation,
// session reconstruction, and the recalculation that keeps derived
// sessions in step with the event log.
//
// Validation and reconstruction are pure functions of their inputs; all
// I/O goes through the EventStore and SessionStore interfaces so the
// algorithms can be tested exhaustively without a database.
//
// The unit of consistency is the (user, day) pair. Recalculation for the
// same pair is serialized behind a keyed mutex; distinct pairs never
// contend. Session replacement additionally runs inside a single storage
// transaction, so a failed recalculation leaves the previous sessions
// intact.
package engine
