package main

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/desertthunder/mympctl/internal/formatter"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/repositories"
	"github.com/desertthunder/mympctl/internal/viewstate"
	"github.com/urfave/cli/v3"
)

// gotoOptions builds the option list of a goto icon from the path argument and flags.
// Flags that were not given are left empty so the stored context is kept.
func gotoOptions(cmd *cli.Command) ([]string, error) {
	p, err := viewstate.ParsePath(cmd.StringArg("path"))
	if err != nil {
		return nil, err
	}

	opts := make([]string, viewstate.GotoArity)
	opts[0], opts[1], opts[2] = string(p.Card), string(p.Tab), string(p.View)
	if cmd.IsSet("offset") {
		opts[3] = strconv.Itoa(cmd.Int("offset"))
	}
	if cmd.IsSet("limit") {
		opts[4] = strconv.Itoa(cmd.Int("limit"))
	}
	opts[5] = cmd.String("filter")
	if cmd.IsSet("sort") || cmd.IsSet("desc") {
		b, err := json.Marshal(viewstate.Sort{Tag: cmd.String("sort"), Desc: cmd.Bool("desc")})
		if err != nil {
			return nil, err
		}
		opts[6] = string(b)
	}
	opts[7] = cmd.String("tag")
	if !cmd.IsSet("search") {
		return opts[:viewstate.GotoArity-1], nil
	}
	opts[8] = cmd.String("search")
	return opts, nil
}

// ViewGoto navigates the persisted view state and applies the given context changes.
func (r *Runner) ViewGoto(ctx context.Context, cmd *cli.Command) error {
	opts, err := gotoOptions(cmd)
	if err != nil {
		return err
	}

	state, nav, db, err := r.openViewState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := state.Goto(opts); err != nil {
		return err
	}
	if err := nav.Save(ctx, state.Snapshot()); err != nil {
		return err
	}
	r.logger.Debug("navigated", "path", state.Current().Path)

	if name := cmd.String("save-icon"); name != "" {
		icon := models.NewHomeIcon(name, cmd.String("ligature"), models.CmdGoto, viewstate.GotoOptions(state.Current())...)
		if err := r.home.Add(ctx, icon); err != nil {
			return err
		}
		r.writePlain("✓ Added home icon %q\n", name)
	}
	return r.writeBytes(formatter.PointerToText("current", state.Current()))
}

// ViewShow prints the view in focus, or every stored context with --all.
func (r *Runner) ViewShow(ctx context.Context, cmd *cli.Command) error {
	state, _, db, err := r.openViewState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("json") {
		return r.writeJSON(state.Snapshot(), true)
	}

	if !cmd.Bool("all") {
		return r.writeBytes(formatter.PointerToText("current", state.Current()))
	}

	contexts, err := repositories.NewViewContextRepository(db).List(nil)
	if err != nil {
		return err
	}
	if len(contexts) == 0 {
		r.writePlain("No stored contexts, showing defaults\n")
		for _, p := range state.Paths() {
			c, err := state.Context(p)
			if err != nil {
				return err
			}
			r.writeBytes(formatter.PointerToText(p.String(), viewstate.Pointer{Path: p, BrowsingContext: c}))
		}
		return nil
	}
	for _, v := range contexts {
		p := viewstate.Pointer{Path: v.Path(), BrowsingContext: v.Context()}
		if err := r.writeBytes(formatter.PointerToText(p.Path.String(), p)); err != nil {
			return err
		}
	}
	return nil
}

// ViewReset rewinds the context at path to its first page.
func (r *Runner) ViewReset(ctx context.Context, cmd *cli.Command) error {
	p, err := viewstate.ParsePath(cmd.StringArg("path"))
	if err != nil {
		return err
	}

	state, nav, db, err := r.openViewState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := state.ResetPagination(p); err != nil {
		return err
	}
	if err := nav.Save(ctx, state.Snapshot()); err != nil {
		return err
	}
	r.writePlain("✓ Reset %s to the first page\n", p)
	return nil
}
