// Package harness runs declarative attendance scenarios against a real
// sqlite-backed engine. Scenarios are YAML files describing a sequence
// of clock actions with their expected outcomes and the session table
// the sequence must produce. They double as executable documentation of
// the validation and reconstruction rules.
package harness
