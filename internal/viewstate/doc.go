// Package viewstate holds the browsing contexts of every screen in the client.
//
// Screens are addressed by a card/tab/view [Path]. The topology is fixed when a [State] is
// built with [New]: cards are either a leaf [BrowsingContext] or carry an active tab, and tabs
// are either a leaf or carry an active view. Following the active chain from a card always
// lands on exactly one context.
//
// A [State] keeps two flattened [Pointer] snapshots: Current, the context on screen, and Last,
// the one shown before the most recent [State.NavigateTo]. Current is rewritten by every
// mutation so it never drifts from the tree.
//
// A State is owned by a single event loop and is not safe for concurrent use.
package viewstate
