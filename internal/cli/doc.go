// Package cli provides the interactive krsbot operator console.
//
// It wires configuration, the account/target/log stores, the vault cipher
// and the portal client factory into a REPL. Typical flow: list stored
// accounts, pick one, inspect the catalog or the timetable, queue course
// targets, and let the batch runner work through them.
//
// Key features:
//   - Account lifecycle: add, rotate password, toggle, verify, remove
//   - Portal reads: offered courses, current enrollments, timetable with
//     conflict annotation
//   - Course mutations: interactive add/drop, every attempt logged
//   - Batch runner over all active accounts
//   - Log queries, stats and CSV/S3 export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
