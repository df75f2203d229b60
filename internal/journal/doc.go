// Package journal records every request sent to the Flexi server in a local
// SQLite database.
//
// The journal is append-only. Each entry holds the prepared request (method,
// path, content type, body) and its outcome. A Recorder wraps any
// resource.Transport and writes one entry per call, so a dry-run session and
// a live session leave the same trail.
//
// # Ordering
//
//   - Entries carry a seq INTEGER from a monotonic counter seeded from the
//     highest stored seq at Open
//   - Reads use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package journal
