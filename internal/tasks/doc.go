// Package tasks backs up and restores myMPD home screens with real-time progress reporting.
//
// # Core Operations
//
// [HomeEngine] provides three operations:
//
//  1. [HomeEngine.Export] : Fetch every home icon of the current partition
//  2. [HomeEngine.Import] : Save icons from an export, optionally replacing the screen
//     - Icons are normalized and validated before anything is sent
//     - Writes are throttled with a token bucket
//     - Failed icons are collected instead of aborting
//  3. [HomeEngine.Diff] : Compare an export with the server
//     - Reports matched, moved, missing and extra icons
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Files
//
// [WriteExport] and [ReadExport] store exports as YAML or JSON, chosen by file extension.
package tasks
