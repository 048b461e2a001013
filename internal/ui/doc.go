// Package ui implements an interactive terminal client for myMPD using bubbletea's Elm architecture.
//
// The screen follows the view state: a card bar (Home, Playback, Queue, Browse, Search), the
// tabs and views of the current card, and a body:
//   - Home : the home icons, executed with enter and reordered by dragging
//   - other cards : the browsing context of the screen in focus, paged and refined in place
//
// Overlays cover partitions, outputs, the ligature picker, prompts and confirmations.
//
// Reordering goes through a [reorder.Coordinator]. Keyboard (m to grab and drop, J/K to step)
// and mouse (press, drag, release) both feed it; the list is only ever replaced with the
// order myMPD returns after a move.
//
// Request completions reach the model as messages built by [CallbackMsg], so everything that
// touches the view state or the coordinator runs inside Update. Websocket notifications
// arrive through [EventMsg].
package ui
