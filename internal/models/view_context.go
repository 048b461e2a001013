package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// ViewContext is the stored browsing context of one screen, so paging, sorting and filtering
// survive between runs.
type ViewContext struct {
	id        string
	path      viewstate.Path
	context   viewstate.BrowsingContext
	createdAt time.Time
	updatedAt time.Time
}

// NewViewContext creates an unsaved [ViewContext].
func NewViewContext(path viewstate.Path, ctx viewstate.BrowsingContext) *ViewContext {
	now := time.Now()
	return &ViewContext{
		path:      path,
		context:   ctx.Clone(),
		createdAt: now,
		updatedAt: now,
	}
}

func (v *ViewContext) ID() string                             { return v.id }
func (v *ViewContext) Path() viewstate.Path                   { return v.path }
func (v *ViewContext) Context() viewstate.BrowsingContext     { return v.context.Clone() }
func (v *ViewContext) CreatedAt() time.Time                   { return v.createdAt }
func (v *ViewContext) UpdatedAt() time.Time                   { return v.updatedAt }
func (v *ViewContext) SetID(id string)                        { v.id = id }
func (v *ViewContext) SetCreatedAt(t time.Time)               { v.createdAt = t }
func (v *ViewContext) SetUpdatedAt(t time.Time)               { v.updatedAt = t }
func (v *ViewContext) SetContext(c viewstate.BrowsingContext) { v.context = c.Clone() }

// Validate checks the bounds every context must keep.
func (v *ViewContext) Validate() error {
	if v.path.Card == "" {
		return fmt.Errorf("%w: view context needs a card", shared.ErrValidation)
	}
	if v.context.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", shared.ErrValidation, v.context.Limit)
	}
	if v.context.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", shared.ErrValidation, v.context.Offset)
	}
	if v.context.ScrollPos < 0 {
		return fmt.Errorf("%w: scroll position must not be negative", shared.ErrValidation)
	}
	return nil
}
