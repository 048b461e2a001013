// Package reorder sequences drag-and-drop moves within a list whose order is owned by a
// backend.
//
// A [Coordinator] tracks at most one drag. Dropping onto a different position asks the
// [Mover] to persist the move and then renders whatever ordering the backend returns. The
// list is never spliced locally, so a failed move leaves the displayed order as it was.
package reorder

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/shared"
)

// State is the phase of the coordinator.
type State int

const (
	Idle State = iota
	Dragging
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes what a drop did.
type Outcome int

const (
	// Ignored means there was no drag to drop.
	Ignored Outcome = iota
	// NoOp means the item was dropped where it started; nothing was requested.
	NoOp
	// Requested means a move request was issued.
	Requested
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case NoOp:
		return "no-op"
	case Requested:
		return "requested"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Session is the drag in progress.
type Session struct {
	ID             string
	SourceKey      string
	SourcePosition int
	// Target is the key of the hovered item, empty when nothing is highlighted.
	Target string
}

// Mover persists a move. from and to are zero-based positions before the move is applied.
// done must be called exactly once with the authoritative ordering or an error.
type Mover[T any] interface {
	Move(from, to int, done func([]T, error))
}

// MoverFunc adapts a function to [Mover].
type MoverFunc[T any] func(from, to int, done func([]T, error))

// Move calls f.
func (f MoverFunc[T]) Move(from, to int, done func([]T, error)) {
	f(from, to, done)
}

// Renderer displays a list in the given order.
type Renderer[T any] interface {
	Render(items []T)
}

// RenderFunc adapts a function to [Renderer].
type RenderFunc[T any] func(items []T)

// Render calls f.
func (f RenderFunc[T]) Render(items []T) {
	f(items)
}

// Coordinator is the drag state machine for one list. It is driven from a single event loop
// and is not safe for concurrent use.
type Coordinator[T any] struct {
	mover    Mover[T]
	renderer Renderer[T]
	logger   *log.Logger
	session  *Session
	state    State
	inFlight int

	// OnError receives move failures. The displayed list is left untouched.
	OnError func(error)
	// OnHighlight is told when the hovered target changes. An empty key clears the highlight.
	OnHighlight func(key string)
}

// New builds a coordinator. logger may be nil.
func New[T any](mover Mover[T], renderer Renderer[T], logger *log.Logger) *Coordinator[T] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator[T]{mover: mover, renderer: renderer, logger: logger}
}

// State reports the current phase.
func (c *Coordinator[T]) State() State {
	return c.state
}

// Session returns a copy of the active drag, or false when idle.
func (c *Coordinator[T]) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Pending reports how many move requests have not completed yet.
func (c *Coordinator[T]) Pending() int {
	return c.inFlight
}

// Begin starts dragging the item with key at position pos, read from the list as it is
// rendered right now. It does nothing and returns false while another drag is active.
func (c *Coordinator[T]) Begin(key string, pos int) bool {
	if c.session != nil {
		c.logger.Debug("drag refused, session active", "active", c.session.SourceKey, "key", key)
		return false
	}
	c.session = &Session{ID: shared.GenerateID(), SourceKey: key, SourcePosition: pos}
	c.state = Dragging
	c.logger.Debug("drag started", "session", c.session.ID, "key", key, "pos", pos)
	return true
}

// Hover marks key as the drop target. It reports whether the highlight changed, so repeated
// hovers over the same item are cheap.
func (c *Coordinator[T]) Hover(key string) bool {
	if c.session == nil || c.session.Target == key {
		return false
	}
	c.session.Target = key
	c.highlight(key)
	return true
}

// Drop ends the drag on position pos, read from the list as it is rendered right now.
//
// Dropping where the drag began requests nothing. Otherwise a single move is issued and the
// coordinator returns to idle at once, so a new drag may start while the request is pending.
// The completion renders the returned ordering verbatim or reports the error.
func (c *Coordinator[T]) Drop(pos int) Outcome {
	if c.session == nil {
		return Ignored
	}
	sess := *c.session
	c.clear()

	if pos == sess.SourcePosition {
		c.logger.Debug("drop on source, nothing to move", "session", sess.ID, "pos", pos)
		return NoOp
	}

	c.state = Committing
	c.inFlight++
	c.logger.Debug("move requested", "session", sess.ID, "from", sess.SourcePosition, "to", pos)
	c.mover.Move(sess.SourcePosition, pos, func(items []T, err error) {
		c.inFlight--
		if err != nil {
			c.logger.Warn("move failed", "session", sess.ID, "from", sess.SourcePosition, "to", pos, "err", err)
			if c.OnError != nil {
				c.OnError(err)
			}
			return
		}
		c.renderer.Render(items)
	})
	if c.session == nil {
		c.state = Idle
	}
	return Requested
}

// Cancel abandons the drag without side effects beyond clearing the highlight.
func (c *Coordinator[T]) Cancel() {
	if c.session == nil {
		return
	}
	c.logger.Debug("drag cancelled", "session", c.session.ID)
	c.clear()
}

func (c *Coordinator[T]) clear() {
	hadTarget := c.session.Target != ""
	c.session = nil
	c.state = Idle
	if hadTarget {
		c.highlight("")
	}
}

func (c *Coordinator[T]) highlight(key string) {
	if c.OnHighlight != nil {
		c.OnHighlight(key)
	}
}
