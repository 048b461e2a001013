// Package models defines the entities mympctl exchanges with a myMPD server and the ones it
// stores locally.
//
// The package contains two categories of types:
//
// 1. Backend entities: values owned by myMPD, decoded from its JSON-RPC responses
//   - [HomeIcon] : a positioned home screen shortcut with a command and options
//   - [Partition] : an independent playback zone
//   - [Output] : an audio sink assignable to a partition
//
// 2. Persistent entities: database-backed models with timestamps and validation
//   - [ViewContext] : the remembered browsing context of one card/tab/view screen
//
// Persistent entities implement the [Model] interface; the [Repository] interface defines
// standard CRUD operations for database access.
package models
