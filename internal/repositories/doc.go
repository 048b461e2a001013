// Package repositories implements SQLite persistence for the client's local state.
//
// myMPD owns home icons, partitions and outputs; the only state kept locally is where the
// user was and how each screen was paged, sorted and filtered.
//
// Key Implementations:
//   - [ViewContextRepository] : one row per card/tab/view browsing context, keyed by path
//   - [NavigationRepository] : saves and loads a whole [viewstate.Snapshot] in one transaction
//
// Filters are stored as JSON text so plain strings and structured field maps share a column.
package repositories
