// Package eventstore persists build history as an append-only event log in SQLite.
//
// Builds append BuildStarted, StageCompleted, BuildWarning and BuildCompleted
// events; History folds them back into per-build summaries.
package eventstore
